package models

// MaxTasks is the hard ceiling on live tasks.
const MaxTasks = 5000

// Status is the lifecycle stage of a task.
type Status int

const (
	StatusTodo Status = iota
	StatusDoing
	StatusDone
)

func (s Status) String() string {
	switch ClampStatus(int(s)) {
	case StatusDoing:
		return "DOING"
	case StatusDone:
		return "DONE"
	default:
		return "TODO"
	}
}

// ClampStatus forces any integer into the valid status range.
func ClampStatus(s int) Status {
	return Status(max(int(StatusTodo), min(int(StatusDone), s)))
}

// Task represents a task on the board.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	Status      Status `json:"status"`
	CreatedAt   int64  `json:"criadoEm"`
}
