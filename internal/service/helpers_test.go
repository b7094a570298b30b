package service

import (
	"context"
	"io"
	"time"

	"bookyz/internal/catalog"
	"bookyz/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockKV) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockKV) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(et string, p interface{}) error { return m.Called(et, p).Error(0) }

var testLoc = time.UTC

// testNow is a fixed Sunday morning so slot times are predictable.
var testNow = time.Date(2025, 3, 2, 8, 30, 0, 0, testLoc)

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

type flowFixture struct {
	catalog  *catalog.Catalog
	kv       *repository.MemoryKVStore
	store    *AppointmentStore
	waitlist *WaitlistService
	flow     *BookingFlow
}

func newFlowFixture() *flowFixture {
	cat := catalog.Default(testNow, testLoc)
	kv := repository.NewMemoryKVStore()
	logger := testLogger()
	store := NewAppointmentStore(kv, nil, logger)
	waitlist := NewWaitlistService(kv, nil, logger)
	flow := NewBookingFlow(cat, store, waitlist, testLoc, 7, logger)
	flow.now = func() time.Time { return testNow }
	flow.reset()
	return &flowFixture{catalog: cat, kv: kv, store: store, waitlist: waitlist, flow: flow}
}
