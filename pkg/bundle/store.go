package bundle

import (
	"context"
	"errors"
	"fmt"

	"github.com/klokku/okc/internal/utils"
)

var (
	ErrNotFound        = errors.New("bundle not found")
	ErrUnauthenticated = errors.New("not authenticated with Notion")
)

type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusWontDo     Status = "Won't Do"
)

var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusWontDo}

func ParseStatus(value string) (Status, error) {
	for _, s := range Statuses {
		if string(s) == value {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown bundle status %q", value)
}

type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

type Sort struct {
	Property  string        `json:"property"`
	Direction SortDirection `json:"direction"`
}

type ListOptions struct {
	PageSize    int
	StartCursor string
	Sorts       []Sort
}

type ListResult struct {
	Bundles    []*Bundle
	HasMore    bool
	NextCursor string
}

type Store interface {
	// FindByName returns the bundle whose name equals name exactly, or ErrNotFound.
	FindByName(ctx context.Context, name string) (*Bundle, error)
	ListByStatus(ctx context.Context, status Status, opts ListOptions) (ListResult, error)
	// Save writes estimatedDays, exceeded, name, startDate and spentDays back to the record.
	Save(ctx context.Context, bundle *Bundle) error
}

// ListAllByStatus follows the store's cursors until every bundle with status is read.
func ListAllByStatus(ctx context.Context, store Store, status Status, pageSize int) ([]*Bundle, error) {
	var all []*Bundle
	opts := ListOptions{PageSize: pageSize}
	for {
		page, err := store.ListByStatus(ctx, status, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Bundles...)

		if !page.HasMore || page.NextCursor == "" {
			break
		}
		opts.StartCursor = page.NextCursor
	}
	return all, nil
}

// Names returns the bundle names in order.
func Names(bundles []*Bundle) []string {
	names := make([]string, 0, len(bundles))
	for _, b := range bundles {
		names = append(names, b.Name)
	}
	return names
}

// Labels are the names of the bundles, except that a name shared by several bundles is
// followed by the start date and page ID so that each label picks exactly one bundle.
func Labels(bundles []*Bundle) []string {
	labels := Names(bundles)
	counts := make(map[string]int, len(labels))
	for _, name := range labels {
		counts[name]++
	}
	for i, b := range bundles {
		if counts[b.Name] > 1 {
			labels[i] = fmt.Sprintf("%s (%s, %s)", b.Name, b.StartDate.Format(utils.DateLayout), b.Id)
		}
	}
	return labels
}
