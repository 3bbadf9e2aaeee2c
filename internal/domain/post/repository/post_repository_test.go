package repository

import (
	"testing"

	"trendgram/internal/domain/post/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB 用 sqlmock 搭一个 gorm 连接，SQL 级别验证锁和事务行为
func newMockDB(t *testing.T) (PostRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return NewPostRepository(gdb), mock
}

func postRows(id, userID uint, archived bool, trendLevel int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "media_ref", "media_type", "is_archived", "trend_level", "views"}).
		AddRow(id, userID, "https://cdn.example.com/a.jpg", model.MediaTypeImage, archived, trendLevel, int64(0))
}

func TestPostExists(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.PostExists(1)

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleArchiveLocksRow(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	// 翻转前必须先拿到行锁
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(postRows(1, 1, false, 0))
	mock.ExpectExec(`UPDATE "posts" SET "is_archived"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	post, err := repo.ToggleArchive(1)

	assert.NoError(t, err)
	assert.True(t, post.IsArchived)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleArchiveTwiceRestoresState(t *testing.T) {
	repo, mock := newMockDB(t)

	// 第一次翻转：false -> true
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(postRows(1, 1, false, 0))
	mock.ExpectExec(`UPDATE "posts" SET "is_archived"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// 第二次翻转：true -> false，回到原值
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(postRows(1, 1, true, 0))
	mock.ExpectExec(`UPDATE "posts" SET "is_archived"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	first, err := repo.ToggleArchive(1)
	assert.NoError(t, err)
	assert.True(t, first.IsArchived)

	second, err := repo.ToggleArchive(1)
	assert.NoError(t, err)
	assert.False(t, second.IsArchived)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastTrendFirstVote(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(postRows(1, 1, false, 0))
	// 该投票人没有历史投票 → 追加一条
	mock.ExpectQuery(`SELECT \* FROM "trends" WHERE post_id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "trends"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	// 同一事务内重算上踩差值
	mock.ExpectQuery(`SELECT count\(\*\) FROM "trends" WHERE post_id = \$1 AND is_uptrend = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "trends" WHERE post_id = \$1 AND is_uptrend = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "posts" SET "trend_level"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	post, err := repo.CastTrend(1, 2, true)

	assert.NoError(t, err)
	assert.Equal(t, 1, post.TrendLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCastTrendReplacesExistingVote(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(postRows(1, 1, false, 1))
	// 已有上踩 → 改方向而不是插新行
	mock.ExpectQuery(`SELECT \* FROM "trends" WHERE post_id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "is_uptrend"}).
			AddRow(5, 1, 2, true))
	mock.ExpectExec(`UPDATE "trends" SET "is_uptrend"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "trends" WHERE post_id = \$1 AND is_uptrend = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "trends" WHERE post_id = \$1 AND is_uptrend = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "posts" SET "trend_level"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	post, err := repo.CastTrend(1, 2, false)

	assert.NoError(t, err)
	assert.Equal(t, -1, post.TrendLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementViews(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE "posts" SET "views"=views \+ \$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.IncrementViews(1, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHomeFeedOrdering(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE is_archived = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	// 排序：分值降序 → 时间降序 → ID 升序
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE is_archived = \$1 ORDER BY trend_level desc, created_at desc, id asc`).
		WillReturnRows(postRows(1, 1, false, 5).
			AddRow(2, 2, "https://cdn.example.com/b.jpg", model.MediaTypeImage, false, 3, int64(0)))

	posts, total, err := repo.GetHomeFeed(0, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, posts, 2)
	assert.Equal(t, 5, posts[0].TrendLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserFeedArchivedOrdersByTime(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE user_id = \$1 AND is_archived = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE user_id = \$1 AND is_archived = \$2 ORDER BY created_at desc, id asc`).
		WillReturnRows(postRows(1, 1, true, 0))

	posts, total, err := repo.GetUserFeed(1, true, 0, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.True(t, posts[0].IsArchived)
	assert.NoError(t, mock.ExpectationsWereMet())
}
