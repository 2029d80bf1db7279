package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
)

// TaskService manages tasks on behalf of their owner. Every operation takes
// the authenticated user id; tasks of other users are reported as not found.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create stores a new task owned by userID. Status defaults to PENDING and
// priority to MEDIUM.
func (s *TaskService) Create(ctx context.Context, userID string, in models.TaskPatch) (*models.Task, error) {
	task := &models.Task{
		UserID:   userID,
		Status:   models.TaskStatusPending,
		Priority: models.TaskPriorityMedium,
	}
	in.Apply(task)
	task.Title = strings.TrimSpace(task.Title)

	if err := validateTask(task); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return created, nil
}

// Update applies patch to the caller's task inside one transaction.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	var updated *models.Task

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := repo.GetByID(ctx, userID, taskID)
		if err != nil {
			return err
		}

		patch.Apply(task)
		task.Title = strings.TrimSpace(task.Title)
		if err := validateTask(task); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, task)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.repomanager.Tasks(s.db).Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

// List returns the tasks owned by userID.
func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return tasks, nil
}

func validateTask(t *models.Task) error {
	if t.Title == "" {
		return common.NewValidationError("Title is required")
	}
	if !t.Status.Valid() {
		return common.NewValidationError(fmt.Sprintf("Invalid status %q", t.Status))
	}
	if !t.Priority.Valid() {
		return common.NewValidationError(fmt.Sprintf("Invalid priority %q", t.Priority))
	}
	return nil
}
