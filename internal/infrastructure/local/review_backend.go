// Package local はローカルストア（sqlite の kv テーブル）上にレビューとマーカーを保存する。
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

// Kind はローカルバックエンドの識別子。
const Kind = "local"

// ReviewsKey はレビュー配列（JSON）を保持する固定キー。
const ReviewsKey = "reviews"

// KeyValueStore はローカルストレージ相当の永続化ポート。
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}

// reviewRecord は JSON 配列の 1 要素。
type reviewRecord struct {
	ID        string  `json:"id"`
	DeviceID  string  `json:"deviceId,omitempty"`
	Name      string  `json:"name"`
	Code      int     `json:"code"`
	Character int     `json:"character"`
	Sat       int     `json:"sat"`
	Text      string  `json:"text"`
	Total     float64 `json:"total"`
	Time      int64   `json:"time"`
}

// ReviewBackend はレビュー全件を 1 キーの JSON 配列として読み書きするバックエンド。
// 読み込み→変更→書き戻しの間はプロセス内で直列化する。
type ReviewBackend struct {
	kv KeyValueStore
	mu sync.Mutex
}

// NewReviewBackend は kv ストアを束縛したローカルバックエンドを生成する。
func NewReviewBackend(kv KeyValueStore) *ReviewBackend {
	return &ReviewBackend{kv: kv}
}

func (b *ReviewBackend) Kind() string { return Kind }

// Key はレビュー固有の ID をキーとして返す。
func (b *ReviewBackend) Key(review domain.Review) string { return domain.KeyByID(review) }

// ListAll は保存済みのレビューを保存順のまま返す。
func (b *ReviewBackend) ListAll(ctx context.Context) ([]domain.Review, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	reviews := make([]domain.Review, 0, len(records))
	for _, record := range records {
		reviews = append(reviews, mapRecordToDomain(record))
	}
	return reviews, nil
}

// Put は key に一致するレコードを丸ごと差し替え、無ければ末尾に追加する。
func (b *ReviewBackend) Put(ctx context.Context, key string, review domain.Review) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load(ctx)
	if err != nil {
		return err
	}
	record := mapDomainToRecord(review)
	record.ID = key

	replaced := false
	for i := range records {
		if records[i].ID == key {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	return b.save(ctx, records)
}

// Delete は key に一致するレコードを除外して書き戻す。該当無しは false。
func (b *ReviewBackend) Delete(ctx context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	records, err := b.load(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]reviewRecord, 0, len(records))
	for _, record := range records {
		if record.ID != key {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	return true, b.save(ctx, kept)
}

func (b *ReviewBackend) load(ctx context.Context) ([]reviewRecord, error) {
	raw, err := b.kv.Get(ctx, ReviewsKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []reviewRecord{}, nil
	}
	var records []reviewRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ReviewsKey, err)
	}
	return records, nil
}

func (b *ReviewBackend) save(ctx context.Context, records []reviewRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ReviewsKey, err)
	}
	return b.kv.Set(ctx, ReviewsKey, raw)
}

func mapRecordToDomain(record reviewRecord) domain.Review {
	return domain.Review{
		ID:        record.ID,
		DeviceID:  record.DeviceID,
		Name:      record.Name,
		Code:      record.Code,
		Character: record.Character,
		Sat:       record.Sat,
		Text:      record.Text,
		Total:     record.Total,
		Time:      record.Time,
	}
}

func mapDomainToRecord(review domain.Review) reviewRecord {
	return reviewRecord{
		ID:        review.ID,
		DeviceID:  review.DeviceID,
		Name:      review.Name,
		Code:      review.Code,
		Character: review.Character,
		Sat:       review.Sat,
		Text:      review.Text,
		Total:     review.Total,
		Time:      review.Time,
	}
}
