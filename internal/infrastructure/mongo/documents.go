package mongo

import "time"

// ReviewDocument は端末ごとに 1 件だけ保存されるレビューのスキーマ。
// _id には端末 ID を使い、端末あたり 1 ドキュメントを保証する。
type ReviewDocument struct {
	DeviceID  string    `bson:"_id"`
	ReviewID  string    `bson:"reviewId"`
	Name      string    `bson:"name"`
	Code      int       `bson:"code"`
	Character int       `bson:"character"`
	Sat       int       `bson:"sat"`
	Text      string    `bson:"text"`
	Total     float64   `bson:"total"`
	Time      int64     `bson:"time"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
