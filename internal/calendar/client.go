// Package calendar - тонкий клиент внешнего календарного сервиса.
// Клиент не ретраит запросы сам: повторные попытки, если нужны,
// остаются на стороне оркестратора бронирований.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	hc      *http.Client
	baseURL string
	token   string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		token:   token,
	}
}

// EventDetails - данные для создания события.
// BookingID служит идемпотентным ключом конференции на стороне календаря.
type EventDetails struct {
	BookingID    string    `json:"bookingId"`
	StudentName  string    `json:"studentName"`
	StudentEmail string    `json:"studentEmail"`
	LessonType   string    `json:"lessonType"`
	Duration     int       `json:"duration"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

// CreatedEvent - результат успешного создания события
type CreatedEvent struct {
	EventID  string
	JoinLink string
}

type request struct {
	Action      string        `json:"action"`
	BookingData *EventDetails `json:"bookingData,omitempty"`
	Updates     any           `json:"updates,omitempty"`
	EventID     string        `json:"eventId,omitempty"`
}

type response struct {
	Success  bool            `json:"success"`
	EventID  string          `json:"eventId"`
	MeetLink string          `json:"meetLink"`
	Event    json.RawMessage `json:"event"`
	Error    string          `json:"error"`
}

// CreateEvent создаёт событие с видеоконференцией и возвращает его ID и ссылку
func (c *Client) CreateEvent(ctx context.Context, details EventDetails) (*CreatedEvent, error) {
	resp, status, err := c.do(ctx, request{Action: "create", BookingData: &details})
	if err != nil {
		return nil, err
	}
	if status >= 400 || !resp.Success {
		return nil, remoteError("create event", resp, status)
	}

	return &CreatedEvent{EventID: resp.EventID, JoinLink: resp.MeetLink}, nil
}

// UpdateEvent частично обновляет существующее событие
func (c *Client) UpdateEvent(ctx context.Context, eventID string, updates any) (json.RawMessage, error) {
	resp, status, err := c.do(ctx, request{Action: "update", EventID: eventID, Updates: updates})
	if err != nil {
		return nil, err
	}
	if status >= 400 || !resp.Success {
		return nil, remoteError("update event", resp, status)
	}

	return resp.Event, nil
}

// DeleteEvent удаляет событие. Ответ "уже удалено" считается успехом,
// поэтому отмену бронирования безопасно повторять.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	resp, status, err := c.do(ctx, request{Action: "delete", EventID: eventID})
	if err != nil {
		return err
	}
	if status == http.StatusNotFound || status == http.StatusGone {
		return nil
	}
	if status >= 400 || !resp.Success {
		return remoteError("delete event", resp, status)
	}

	return nil
}

func (c *Client) do(ctx context.Context, payload request) (*response, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal calendar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("build calendar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("calendar request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("read calendar response: %w", err)
	}

	var resp response
	// Тело может быть не-JSON при ошибках прокси, тогда оставляем нулевой ответ
	_ = json.Unmarshal(raw, &resp)

	return &resp, httpResp.StatusCode, nil
}

func remoteError(op string, resp *response, status int) error {
	if resp.Error != "" {
		return fmt.Errorf("%s: %s (status=%d)", op, resp.Error, status)
	}
	return fmt.Errorf("%s failed (status=%d)", op, status)
}
