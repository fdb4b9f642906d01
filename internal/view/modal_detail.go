package view

import (
	"context"

	"dealerdesk/internal/models"
)

// ModalDetail is the serial-number inventory view of one product modal. It is
// a thin wrapper: the whole detail page is the paginated serials collection.
type ModalDetail struct {
	id      int
	Serials *PagedQuery[models.SerialNumber]
	cancel  context.CancelFunc
}

// NewModalDetail builds the serials view for one modal without fetching.
func NewModalDetail(parent context.Context, api API, id int) *ModalDetail {
	ctx, cancel := context.WithCancel(parent)
	return &ModalDetail{
		id:     id,
		cancel: cancel,
		Serials: NewPagedQuery(ctx, Options[models.SerialNumber]{
			Name:    "modal details",
			Size:    ModalsPageSize,
			SortDir: "DESC",
			Fetch: func(ctx context.Context, q Query) (models.Page[models.SerialNumber], error) {
				return api.GetModalSerials(ctx, id, q.Page, q.Size, q.SortDir)
			},
		}),
	}
}

// ID returns the modal id this view is bound to.
func (m *ModalDetail) ID() int { return m.id }

// Close detaches the view; in-flight results are dropped.
func (m *ModalDetail) Close() {
	m.Serials.Close()
	m.cancel()
}
