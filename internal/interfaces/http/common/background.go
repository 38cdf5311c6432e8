package common

import (
	"context"
	"sync"
)

// Background はレスポンス後に走らせる処理（管理者通知など）を追跡し、停止時に待ち合わせる。
type Background struct {
	wg sync.WaitGroup
}

// Go は fn を別 goroutine で実行する。
func (b *Background) Go(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// Wait は実行中の処理がすべて終わるか ctx が終了するまで待つ。
func (b *Background) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
