package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/masterkusok/greetings/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerWritesAccessEntry(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := NewServer(store.NewSeededStorage(), nil, zap.New(core)).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/greetings/42", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	entries := logs.FilterMessage("request").AllUntimed()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/greetings/42", fields["path"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRequestLoggerRecordsPanic(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := NewServer(panickingGreetings{store.NewSeededStorage()}, nil, zap.New(core)).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/greetings/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic").Len())
}

type panickingGreetings struct {
	*store.InMemoryStorage
}

func (panickingGreetings) List() map[int]string {
	panic("list exploded")
}
