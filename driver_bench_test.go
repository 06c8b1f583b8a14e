package presenterx_test

import (
	"context"
	"testing"

	. "github.com/comalice/presenterx"
)

// BenchmarkDriver_Emit measures queue-to-publish throughput of one driver.
func BenchmarkDriver_Emit(b *testing.B) {
	state := 0
	done := make(chan struct{})
	d := NewDriver(addReducer())
	d.Current = func() int { return state }
	d.Publish = func(_ inc, next int) (Reducer[int, *backNav, inc], error) {
		state = next
		if state == b.N {
			close(done)
		}
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Emit(inc{N: 1})
	}
	<-done
}

// BenchmarkPresenter_Subscribe measures publish fan-out to subscribers.
func BenchmarkPresenter_Subscribe(b *testing.B) {
	p, err := NewSinglePresenter(context.Background(), SingleConfig[int, *backNav, inc]{
		Initial: func() int { return 0 },
		Reducer: addReducer(),
	}, WithSharing(Eagerly))
	if err != nil {
		b.Fatal(err)
	}
	defer p.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for i := 0; i < 8; i++ {
		go func() {
			for range p.Subscribe(ctx) {
			}
		}()
	}
	last := p.Subscribe(ctx)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.EmitUserAction(inc{N: 1})
	}
	for s := range last {
		if s == b.N {
			break
		}
	}
}
