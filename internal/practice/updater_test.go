package practice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_progress "github.com/at-ishikawa/verbdrill/internal/mocks/progress"
	mock_reward "github.com/at-ishikawa/verbdrill/internal/mocks/reward"
	"github.com/at-ishikawa/verbdrill/internal/progress"
)

func TestUpdater_RecordAnswer(t *testing.T) {
	day := 24 * time.Hour

	tests := []struct {
		name       string
		existing   *progress.Record
		correct    bool
		wantRecord progress.Record
		wantReward int
	}{
		{
			name:    "first answer enrolls and advances",
			correct: true,
			wantRecord: progress.Record{
				UserID: 1, VerbID: 2, Streak: 1, DueAt: testNow.Add(2 * day),
			},
			wantReward: 20,
		},
		{
			name:     "streak 3 correct",
			existing: &progress.Record{UserID: 1, VerbID: 2, Streak: 3, Mistakes: 1, DueAt: testNow},
			correct:  true,
			wantRecord: progress.Record{
				UserID: 1, VerbID: 2, Streak: 4, Mistakes: 1, DueAt: testNow.Add(16 * day),
			},
			wantReward: 50,
		},
		{
			name:     "streak 6 correct is capped",
			existing: &progress.Record{UserID: 1, VerbID: 2, Streak: 6, DueAt: testNow},
			correct:  true,
			wantRecord: progress.Record{
				UserID: 1, VerbID: 2, Streak: 7, DueAt: testNow.Add(32 * day),
			},
			wantReward: 60,
		},
		{
			name:     "wrong answer resets the streak",
			existing: &progress.Record{UserID: 1, VerbID: 2, Streak: 5, Mistakes: 2, DueAt: testNow},
			correct:  false,
			wantRecord: progress.Record{
				UserID: 1, VerbID: 2, Streak: 0, Mistakes: 3, DueAt: testNow.Add(day),
			},
			wantReward: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			var records []progress.Record
			if tt.existing != nil {
				records = append(records, *tt.existing)
			}
			_, store := newTestStore(t, testVerbs(3), records...)

			ctrl := gomock.NewController(t)
			sink := mock_reward.NewMockSink(ctrl)
			sink.EXPECT().ApplyReward(ctx, int64(1), tt.wantReward).Return(nil)

			got, err := NewUpdater(store, sink, nil).RecordAnswer(ctx, 1, 2, tt.correct, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.wantReward, got.Reward)
			assert.Equal(t, tt.wantRecord.Streak, got.Record.Streak)
			assert.Equal(t, tt.wantRecord.Mistakes, got.Record.Mistakes)
			assert.Equal(t, tt.wantRecord.DueAt, got.Record.DueAt)
			assert.Equal(t, testNow, got.Record.UpdatedAt)

			stored, err := store.Get(ctx, 1, 2)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, got.Record.Streak, stored.Streak)
			assert.Equal(t, got.Record.Mistakes, stored.Mistakes)
			assert.Equal(t, got.Record.DueAt, stored.DueAt)
		})
	}
}

func TestUpdater_RecordAnswer_SinkFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	_, store := newTestStore(t, testVerbs(1))

	ctrl := gomock.NewController(t)
	sink := mock_reward.NewMockSink(ctrl)
	sink.EXPECT().ApplyReward(ctx, int64(1), 20).Return(errors.New("xp service unavailable"))

	got, err := NewUpdater(store, sink, nil).RecordAnswer(ctx, 1, 1, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Record.Streak)

	stored, err := store.Get(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Streak)
}

func TestUpdater_RecordAnswer_NilSink(t *testing.T) {
	_, store := newTestStore(t, testVerbs(1))
	got, err := NewUpdater(store, nil, nil).RecordAnswer(context.Background(), 1, 1, false, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Reward)
}

func TestUpdater_RecordAnswer_UpdateFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mock_progress.NewMockRepository(ctrl)
	sink := mock_reward.NewMockSink(ctrl)
	updateErr := errors.New("deadlock")

	store.EXPECT().Get(ctx, int64(1), int64(1)).Return(&progress.Record{UserID: 1, VerbID: 1, Streak: 2}, nil)
	store.EXPECT().Update(ctx, gomock.Any()).Return(updateErr)

	_, err := NewUpdater(store, sink, nil).RecordAnswer(ctx, 1, 1, true, testNow)
	assert.ErrorIs(t, err, updateErr)
}

func TestInitializer_Initialize(t *testing.T) {
	ctx := context.Background()
	_, store := newTestStore(t, testVerbs(4),
		progress.Record{UserID: 1, VerbID: 2, Streak: 3, DueAt: testNow.Add(time.Hour)},
		progress.Record{UserID: 2, VerbID: 1},
	)
	initializer := NewInitializer(store)

	created, err := initializer.Initialize(ctx, 1, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = initializer.Initialize(ctx, 1, testNow)
	require.NoError(t, err)
	assert.Zero(t, created)

	records, err := store.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	kept, err := store.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, kept.Streak)
}

func TestInitializer_Initialize_ConcurrentEnrollment(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mock_progress.NewMockRepository(ctrl)

	store.EXPECT().ListUnseenVerbs(ctx, int64(1), 0).Return(testVerbs(2), nil)
	store.EXPECT().Create(ctx, gomock.Any()).Return(progress.ErrDuplicate)
	store.EXPECT().Get(ctx, int64(1), int64(1)).Return(&progress.Record{UserID: 1, VerbID: 1}, nil)
	store.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	created, err := NewInitializer(store).Initialize(ctx, 1, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}
