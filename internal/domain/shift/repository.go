package shift

import "context"

type ShiftRepository interface {
	List(ctx context.Context) ([]Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	Create(ctx context.Context, s Shift) (Shift, error)
	Update(ctx context.Context, s Shift) (Shift, error)
	Delete(ctx context.Context, id string) error
}
