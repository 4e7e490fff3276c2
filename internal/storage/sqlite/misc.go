package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// CreateTask inserts a reminder task.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt == 0 {
		task.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (id, title, description, due_date, completed, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		task.ID, task.Title, task.Description, task.DueDate, boolToInt(task.Completed), task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// ListTasks returns every task ordered by due date.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, description, due_date, completed, created_at FROM tasks ORDER BY due_date")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var completed int
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &completed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Completed = completed != 0
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CompleteTask marks a task done, returning the updated record or (nil, nil)
// when absent.
func (s *SQLiteStore) CompleteTask(ctx context.Context, id string) (*models.Task, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE tasks SET completed = 1 WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}

	task := &models.Task{}
	var completed int
	err = s.db.QueryRowContext(ctx,
		"SELECT id, title, description, due_date, completed, created_at FROM tasks WHERE id = ?", id,
	).Scan(&task.ID, &task.Title, &task.Description, &task.DueDate, &completed, &task.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	task.Completed = completed != 0
	return task, nil
}

// DeleteTask removes a task; storage.ErrNotFound when it does not exist.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateDocument inserts a link record.
func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt == 0 {
		doc.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (id, title, course, category, type, link, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		doc.ID, doc.Title, doc.Course, doc.Category, doc.Type, doc.Link, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// ListDocuments filters by course and, when non-empty, category.
func (s *SQLiteStore) ListDocuments(ctx context.Context, course, category string) ([]models.Document, error) {
	query := "SELECT id, title, course, category, type, link, created_at FROM documents WHERE course = ?"
	args := []any{course}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Course, &d.Category, &d.Type, &d.Link, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document; storage.ErrNotFound when absent.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateNotification inserts a notification.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt == 0 {
		n.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notifications (id, message, read, created_at) VALUES (?, ?, ?, ?)",
		n.ID, n.Message, boolToInt(n.Read), n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications returns notifications newest first.
func (s *SQLiteStore) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, message, read, created_at FROM notifications ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var ns []models.Notification
	for rows.Next() {
		var n models.Notification
		var read int
		if err := rows.Scan(&n.ID, &n.Message, &read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Read = read != 0
		ns = append(ns, n)
	}
	return ns, rows.Err()
}

// MarkNotificationRead flags a notification; storage.ErrNotFound when absent.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
