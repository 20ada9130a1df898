package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prokaiwa/lesson-booking/internal/model"
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByID получает анкету студента по ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	query := `
		SELECT id, name, given_name_romaji, email, plan, telegram_chat_id, created_at
		FROM students
		WHERE id = $1
	`

	var student model.Student
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.Name,
		&student.GivenNameRomaji,
		&student.Email,
		&student.Plan,
		&student.TelegramChatID,
		&student.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return &student, nil
}
