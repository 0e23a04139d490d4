package store

type Greeting struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

type Storage interface {
	List() map[int]string
	Get(id int) (string, error)
	Create(id int, message string) (Greeting, error)
	Update(id int, message string) error
	Delete(id int) error

	Replace(data map[int]string)
}
