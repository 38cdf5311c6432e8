package main

import (
	"math/rand/v2"
	"time"

	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

var sampleNames = []string{
	"Lan", "Minh", "Hương", "Tuấn", "Mai", "Quang", "Thảo", "Hải", "Ngọc", "Bảo",
}

var sampleTexts = []string{
	"Dịch vụ rất tốt, sẽ quay lại!",
	"Code sạch, giải thích dễ hiểu.",
	"Nhiệt tình và đúng hẹn.",
	"Ổn, nhưng phản hồi hơi chậm.",
	"Rất đáng tiền.",
	"",
}

// generateReviews は通常レビュー count 件と削除対象 purgeRows 件を作る。
// 時刻は now から過去 30 日の範囲に散らす。
func generateReviews(seed uint64, now time.Time, count, purgeRows int, purgeName, purgeText string) []domain.Review {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	window := int64(30 * 24 * time.Hour / time.Millisecond)

	reviews := make([]domain.Review, 0, count+purgeRows)
	for i := 0; i < count+purgeRows; i++ {
		createdAt := time.UnixMilli(now.UnixMilli() - rng.Int64N(window))
		input := domain.ReviewInput{
			Name:      sampleNames[rng.IntN(len(sampleNames))],
			Code:      domain.MinRating + rng.IntN(domain.MaxRating),
			Character: domain.MinRating + rng.IntN(domain.MaxRating),
			Sat:       domain.MinRating + rng.IntN(domain.MaxRating),
			Text:      sampleTexts[rng.IntN(len(sampleTexts))],
		}
		if i >= count {
			input.Name = purgeName
			input.Text = purgeText
		}
		deviceID := domain.NewDeviceID(createdAt, rng.IntN(1_000_000_000))
		reviews = append(reviews, domain.NewReview(input, deviceID, createdAt))
	}
	return reviews
}
