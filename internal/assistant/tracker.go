package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/takak2166/mailassist/internal/logger"
	"github.com/takak2166/mailassist/internal/markdown"
	"github.com/takak2166/mailassist/internal/models"
)

var (
	// ErrEmptySummary is returned when there is no summary to send
	ErrEmptySummary = errors.New("there is no summary to send")
	// ErrMissingTaskName is returned when the task has no name
	ErrMissingTaskName = errors.New("task name is required")
	// ErrMissingTaskID is returned when the tracker created a task without an ID
	ErrMissingTaskID = errors.New("tracker response did not contain a task id")
)

// Tracker creates tasks in a task-tracking service
type Tracker interface {
	CreateTask(ctx context.Context, req models.TaskRequest) (string, error)
	CreateComment(ctx context.Context, taskID, text string) error
	CreateSubtask(ctx context.Context, taskID, name string) (string, error)
}

// TaskSettings map the labels a user picks to tracker values
type TaskSettings struct {
	// Assignees maps a case-insensitive label to a tracker user ID
	Assignees map[string]string `yaml:"assignees"`
	// Priorities maps a label to a select option. When empty, labels are
	// used as option names.
	Priorities      map[string]string `yaml:"priorities"`
	DefaultAssignee string            `yaml:"default_assignee"`
	DefaultPriority string            `yaml:"default_priority"`
	// Fields are extra select properties set on every task
	Fields map[string]string `yaml:"fields"`
}

// TaskOptions are the per-task choices
type TaskOptions struct {
	Name     string
	Assignee string
	Priority string
	DueOn    *time.Time
}

// BuildTaskRequest validates the summary and task options and prepares the
// tracker request. No remote call is made.
func BuildTaskRequest(summary, email string, opts TaskOptions, settings TaskSettings) (models.TaskRequest, error) {
	plain := markdown.ToPlainText(summary)
	if strings.TrimSpace(plain) == "" {
		logger.Warn("There is no summary to send")
		return models.TaskRequest{}, ErrEmptySummary
	}

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		logger.Warn("Task name is required")
		return models.TaskRequest{}, ErrMissingTaskName
	}

	req := models.TaskRequest{
		Name:          name,
		Notes:         "Email: \n" + markdown.StripNumberedItems(plain),
		DueOn:         opts.DueOn,
		Assignee:      settings.assignee(opts.Assignee),
		Priority:      settings.priority(opts.Priority),
		Subtasks:      markdown.NumberedItems(plain),
		OriginalEmail: strings.TrimSpace(email),
	}
	if len(settings.Fields) > 0 {
		req.Fields = make(map[string]string, len(settings.Fields))
		for k, v := range settings.Fields {
			req.Fields[k] = v
		}
	}

	logger.Debug("Prepared task request", map[string]interface{}{
		"name":     req.Name,
		"assignee": req.Assignee,
		"priority": req.Priority,
		"subtasks": len(req.Subtasks),
	})
	return req, nil
}

func (s TaskSettings) assignee(label string) string {
	if label == "" {
		label = s.DefaultAssignee
	}
	if label == "" {
		return ""
	}
	for key, id := range s.Assignees {
		if strings.EqualFold(key, label) {
			return id
		}
	}
	logger.Warn("Unknown assignee, leaving task unassigned", map[string]interface{}{
		"assignee": label,
	})
	return ""
}

func (s TaskSettings) priority(label string) string {
	if label == "" {
		label = s.DefaultPriority
	}
	if label == "" || len(s.Priorities) == 0 {
		return label
	}
	if option, ok := s.Priorities[label]; ok {
		return option
	}
	logger.Warn("Unknown priority, leaving it unset", map[string]interface{}{
		"priority": label,
	})
	return ""
}

// SendResult describes what was created remotely
type SendResult struct {
	TaskID   string
	Subtasks int
}

// SendToTracker creates the task, then the comment with the original email,
// then one subtask per item in order. A failure stops the sequence and
// leaves what was already created in place.
func SendToTracker(ctx context.Context, tracker Tracker, req models.TaskRequest) (SendResult, error) {
	var result SendResult

	taskID, err := tracker.CreateTask(ctx, req)
	if err != nil {
		return result, fmt.Errorf("failed to create task: %w", err)
	}
	if taskID == "" {
		return result, ErrMissingTaskID
	}
	result.TaskID = taskID

	if err := tracker.CreateComment(ctx, taskID, req.OriginalEmail); err != nil {
		return result, fmt.Errorf("failed to add email comment: %w", err)
	}

	for _, name := range req.Subtasks {
		if _, err := tracker.CreateSubtask(ctx, taskID, name); err != nil {
			return result, fmt.Errorf("failed to create subtask %d of %d: %w", result.Subtasks+1, len(req.Subtasks), err)
		}
		result.Subtasks++
	}

	logger.Info("Task created", map[string]interface{}{
		"name":     req.Name,
		"task":     taskID,
		"subtasks": result.Subtasks,
	})
	return result, nil
}
