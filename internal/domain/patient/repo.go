package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByEmail(ctx context.Context, email string) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Count(ctx context.Context) (int, error)
}

type NoteRepository interface {
	Add(ctx context.Context, n *ConsultationNote) error
	ListByPatient(ctx context.Context, patientID int64) ([]*ConsultationNote, error)
	ListByPatients(ctx context.Context, patientIDs []int64) (map[int64][]*ConsultationNote, error)
}
