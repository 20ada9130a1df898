package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ConsultationRepository struct {
	pool *pgxpool.Pool
}

func NewConsultationRepository(pool *pgxpool.Pool) *ConsultationRepository {
	return &ConsultationRepository{pool: pool}
}

// MarkClaimed отмечает первую бесплатную консультацию студента использованной
// и связывает её с созданным бронированием
func (r *ConsultationRepository) MarkClaimed(ctx context.Context, studentID, bookingID int64) error {
	query := `
		UPDATE first_time_consultations
		SET claimed = true,
		    claimed_at = $2,
		    booking_id = $3
		WHERE student_id = $1
	`

	_, err := r.pool.Exec(ctx, query, studentID, time.Now(), bookingID)
	if err != nil {
		return fmt.Errorf("mark consultation claimed: %w", err)
	}

	return nil
}
