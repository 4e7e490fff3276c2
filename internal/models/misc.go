package models

// Task is a simple reminder with a due date.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     int64  `json:"due_date"`
	Completed   bool   `json:"completed"`
	CreatedAt   int64  `json:"created_at"`
}

// Document is a stored link to course material or a video.
type Document struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Course   string `json:"course"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	Link     string `json:"link"`

	CreatedAt int64 `json:"created_at"`
}

// Notification is a message shown to users until marked read.
type Notification struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt int64  `json:"created_at"`
}
