package command

type Command struct {
	Action  Action `json:"action"`
	ID      int    `json:"id"`
	Message string `json:"message,omitempty"`
}

func NewCreateCommand(id int, message string) Command {
	return Command{
		Action:  CreateAction,
		ID:      id,
		Message: message,
	}
}

func NewUpdateCommand(id int, message string) Command {
	return Command{
		Action:  UpdateAction,
		ID:      id,
		Message: message,
	}
}

func NewDeleteCommand(id int) Command {
	return Command{
		Action: DeleteAction,
		ID:     id,
	}
}
