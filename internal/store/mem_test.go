package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededStorage(t *testing.T) {
	s := NewSeededStorage()

	assert.Equal(t, Seed(), s.List())

	msg, err := s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "Greetings, Earthling!", msg)
}

func TestGetUnknownID(t *testing.T) {
	s := NewSeededStorage()

	for _, id := range []int{0, -1, 6, 42, 1 << 30} {
		_, err := s.Get(id)
		assert.ErrorIs(t, err, ErrNotFound, "id %d", id)
	}
}

func TestCreateExistingKeepsMessage(t *testing.T) {
	s := NewSeededStorage()

	_, err := s.Create(1, "Overwritten")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	msg, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", msg)
}

func TestGreetingLifecycle(t *testing.T) {
	s := NewSeededStorage()

	created, err := s.Create(6, "Yo")
	require.NoError(t, err)
	assert.Equal(t, Greeting{ID: 6, Message: "Yo"}, created)

	msg, err := s.Get(6)
	require.NoError(t, err)
	assert.Equal(t, "Yo", msg)

	require.NoError(t, s.Update(6, "Hey"))
	msg, err = s.Get(6)
	require.NoError(t, err)
	assert.Equal(t, "Hey", msg)

	require.NoError(t, s.Delete(6))
	_, err = s.Get(6)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(6), ErrNotFound)
}

func TestUpdateUnknownMakesNoChange(t *testing.T) {
	s := NewSeededStorage()

	assert.ErrorIs(t, s.Update(9, "nope"), ErrNotFound)
	assert.Equal(t, Seed(), s.List())
}

func TestListReflectsSurvivors(t *testing.T) {
	s := NewSeededStorage()

	require.NoError(t, s.Delete(2))
	require.NoError(t, s.Update(4, "Respect"))
	_, err := s.Create(10, "Ten")
	require.NoError(t, err)

	assert.Equal(t, map[int]string{
		1:  "Hello, World!",
		3:  "Greetings, Earthling!",
		4:  "Respect",
		5:  "Hey there, Universe!",
		10: "Ten",
	}, s.List())
}

func TestListReturnsCopy(t *testing.T) {
	s := NewSeededStorage()

	list := s.List()
	list[1] = "mutated"
	delete(list, 2)

	assert.Equal(t, Seed(), s.List())
}

func TestReplace(t *testing.T) {
	s := NewSeededStorage()

	s.Replace(map[int]string{7: "seven"})
	assert.Equal(t, map[int]string{7: "seven"}, s.List())

	s.Replace(nil)
	assert.Empty(t, s.List())
	_, err := s.Create(1, "one")
	assert.NoError(t, err)
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	s := NewInMemoryStorage()

	const workers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create(1, "race"); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}
