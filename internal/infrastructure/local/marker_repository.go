package local

import (
	"context"
	"strings"
)

const (
	markerPrefix  = "marker:"
	editingPrefix = "editing:"
)

// MarkerRepository は端末ごとの投稿マーカーと編集中フラグを kv ストアに保存する。
type MarkerRepository struct {
	kv KeyValueStore
}

// NewMarkerRepository は kv ストアを束縛したマーカーリポジトリを生成する。
func NewMarkerRepository(kv KeyValueStore) *MarkerRepository {
	return &MarkerRepository{kv: kv}
}

func (r *MarkerRepository) Marker(ctx context.Context, deviceID string) (string, error) {
	raw, err := r.kv.Get(ctx, markerPrefix+deviceID)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *MarkerRepository) SetMarker(ctx context.Context, deviceID, key string) error {
	return r.kv.Set(ctx, markerPrefix+deviceID, []byte(key))
}

func (r *MarkerRepository) ClearMarker(ctx context.Context, deviceID string) error {
	return r.kv.Delete(ctx, markerPrefix+deviceID)
}

// ClearKey は key を指すマーカーを端末に関係なくすべて削除し、編集中フラグも落とす。
func (r *MarkerRepository) ClearKey(ctx context.Context, key string) (int, error) {
	markers, err := r.kv.List(ctx, markerPrefix)
	if err != nil {
		return 0, err
	}
	cleared := 0
	for markerKey, value := range markers {
		if string(value) != key {
			continue
		}
		deviceID := strings.TrimPrefix(markerKey, markerPrefix)
		if err := r.kv.Delete(ctx, markerKey); err != nil {
			return cleared, err
		}
		if err := r.kv.Delete(ctx, editingPrefix+deviceID); err != nil {
			return cleared, err
		}
		cleared++
	}
	return cleared, nil
}

func (r *MarkerRepository) Editing(ctx context.Context, deviceID string) (bool, error) {
	raw, err := r.kv.Get(ctx, editingPrefix+deviceID)
	if err != nil {
		return false, err
	}
	return string(raw) == "1", nil
}

func (r *MarkerRepository) SetEditing(ctx context.Context, deviceID string, editing bool) error {
	if !editing {
		return r.kv.Delete(ctx, editingPrefix+deviceID)
	}
	return r.kv.Set(ctx, editingPrefix+deviceID, []byte("1"))
}
