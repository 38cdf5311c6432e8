package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

// Kind はリモートバックエンドの識別子。
const Kind = "mongo"

// reviewCollection は ReviewRepository が利用する *mongo.Collection のサブセット。
type reviewCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// ReviewRepository は端末 ID をドキュメント ID とするリモートバックエンド。
type ReviewRepository struct {
	collection reviewCollection
	now        func() time.Time
}

// NewReviewRepository は MongoDB のコレクションを束縛したリポジトリを生成する。
func NewReviewRepository(db *mongo.Database, collectionName string) *ReviewRepository {
	return newReviewRepository(db.Collection(collectionName))
}

func newReviewRepository(collection reviewCollection) *ReviewRepository {
	return &ReviewRepository{collection: collection, now: time.Now}
}

func (r *ReviewRepository) Kind() string { return Kind }

// Key は端末 ID をそのままドキュメント ID として使う。
func (r *ReviewRepository) Key(review domain.Review) string { return domain.KeyByDevice(review) }

// ListAll はコレクション内のドキュメントをすべて読み込む。
func (r *ReviewRepository) ListAll(ctx context.Context) ([]domain.Review, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode review: %w", err)
		}
		reviews = append(reviews, mapReviewDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// Put は key のドキュメントを丸ごと置き換える（無ければ作成）。
func (r *ReviewRepository) Put(ctx context.Context, key string, review domain.Review) error {
	doc := ReviewDocument{
		DeviceID:  key,
		ReviewID:  review.ID,
		Name:      review.Name,
		Code:      review.Code,
		Character: review.Character,
		Sat:       review.Sat,
		Text:      review.Text,
		Total:     review.Total,
		Time:      review.Time,
		UpdatedAt: r.now().UTC(),
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace review %s: %w", key, err)
	}
	return nil
}

// Delete は key のドキュメントを削除する。存在しなければ false。
func (r *ReviewRepository) Delete(ctx context.Context, key string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return false, fmt.Errorf("delete review %s: %w", key, err)
	}
	return res.DeletedCount > 0, nil
}

func mapReviewDocument(doc ReviewDocument) domain.Review {
	return domain.Review{
		ID:        doc.ReviewID,
		DeviceID:  doc.DeviceID,
		Name:      doc.Name,
		Code:      doc.Code,
		Character: doc.Character,
		Sat:       doc.Sat,
		Text:      doc.Text,
		Total:     doc.Total,
		Time:      doc.Time,
	}
}
