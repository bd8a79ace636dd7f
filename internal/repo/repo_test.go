package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/domain"
	"bookreview/internal/testutil"
)

func TestUserRepoEmailUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	u := &domain.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "h", Role: domain.RoleUser}
	require.NoError(t, users.Create(ctx, u))

	err := users.Create(ctx, &domain.User{Name: "Ann2", Email: "ann@x.com", PasswordHash: "h", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrConflict)

	taken, err := users.EmailTaken(ctx, "ann@x.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = users.EmailTaken(ctx, "ann@x.com", u.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own email is not taken on self-update")

	_, err = users.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepoSetRole(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepo(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, testutil.WithEmail("boss@x.com"))

	require.NoError(t, users.SetRole(ctx, "boss@x.com", domain.RoleAdmin))
	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	assert.ErrorIs(t, users.SetRole(ctx, "ghost@x.com", domain.RoleAdmin), domain.ErrNotFound)
}

func TestBookRepoListKeywordAndAggregates(t *testing.T) {
	db := testutil.NewDB(t)
	books := NewBookRepo(db)
	ctx := context.Background()

	reader := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	dune := testutil.CreateBook(t, db, testutil.WithTitle("Dune Messiah"))
	testutil.CreateBook(t, db, testutil.WithTitle("DUNE"))
	testutil.CreateBook(t, db, testutil.WithTitle("Foundation"))
	testutil.CreateBook(t, db, testutil.WithTitle("Dune Draft"), testutil.WithStatus(domain.BookInactive))

	testutil.CreateReview(t, db, reader, dune, 4, domain.ReviewApproved, "a fine sequel indeed")
	testutil.CreateReview(t, db, other, dune, 2, domain.ReviewPending, "not as good as the first")

	page, err := books.List(ctx, domain.BookFilter{Keyword: "dune", Page: 1, Public: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	for _, b := range page.Items {
		assert.Contains(t, []string{"Dune Messiah", "DUNE"}, b.Title)
	}
	// 同批次创建按 id 倒序兜底
	assert.Equal(t, "DUNE", page.Items[0].Title)
	assert.Equal(t, int64(1), page.Items[1].ReviewCount, "public counts approved only")
	assert.Equal(t, int64(4), page.Items[1].RatingSum)

	admin, err := books.List(ctx, domain.BookFilter{Keyword: "dune", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), admin.Total)
	for _, b := range admin.Items {
		if b.ID == dune.ID {
			assert.Equal(t, int64(2), b.ReviewCount)
			assert.Equal(t, int64(6), b.RatingSum)
		}
	}
}

func TestBookRepoListPagination(t *testing.T) {
	db := testutil.NewDB(t)
	books := NewBookRepo(db)
	ctx := context.Background()
	for i := 0; i < 23; i++ {
		testutil.CreateBook(t, db)
	}

	p1, err := books.List(ctx, domain.BookFilter{Page: 1})
	require.NoError(t, err)
	assert.Len(t, p1.Items, domain.PageSize)
	assert.Equal(t, int64(23), p1.Total)
	assert.Equal(t, 3, p1.LastPage)

	p3, err := books.List(ctx, domain.BookFilter{Page: 3})
	require.NoError(t, err)
	assert.Len(t, p3.Items, 3)
	assert.Greater(t, p1.Items[0].ID, p3.Items[0].ID)
}

func TestBookRepoOrdersByCreatedAt(t *testing.T) {
	db := testutil.NewDB(t)
	books := NewBookRepo(db)
	ctx := context.Background()

	older := testutil.CreateBook(t, db, testutil.WithTitle("Older"))
	newer := testutil.CreateBook(t, db, testutil.WithTitle("Newer"))
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(time.Hour)).Error)

	page, err := books.List(ctx, domain.BookFilter{Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, older.ID, page.Items[0].ID)
	assert.Equal(t, newer.ID, page.Items[1].ID)
}

func TestBookRepoSummaryHidesInactive(t *testing.T) {
	db := testutil.NewDB(t)
	books := NewBookRepo(db)
	ctx := context.Background()
	hidden := testutil.CreateBook(t, db, testutil.WithStatus(domain.BookInactive))

	_, err := books.Summary(ctx, hidden.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s, err := books.Summary(ctx, hidden.ID, false)
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, s.ID)
}

func TestBookRepoDeleteCascadesReviews(t *testing.T) {
	db := testutil.NewDB(t)
	books := NewBookRepo(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db)
	b := testutil.CreateBook(t, db, testutil.WithBookImage("1-abc.png"))
	keep := testutil.CreateBook(t, db)
	testutil.CreateReview(t, db, u, b, 5, domain.ReviewApproved, "wonderful read overall")
	testutil.CreateReview(t, db, u, keep, 3, domain.ReviewApproved, "fine but forgettable")

	deleted, err := books.Delete(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, deleted.HasImage())
	assert.Equal(t, "1-abc.png", *deleted.Image)

	var n int64
	require.NoError(t, db.Model(&domain.Review{}).Where("book_id = ?", b.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&domain.Review{}).Where("book_id = ?", keep.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	_, err = books.Delete(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewRepoOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	reviews := NewReviewRepo(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db)
	intruder := testutil.CreateUser(t, db)
	b := testutil.CreateBook(t, db)
	rv := testutil.CreateReview(t, db, owner, b, 4, domain.ReviewPending, "my honest opinion here")

	_, err := reviews.GetOwned(ctx, rv.ID, intruder.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = reviews.UpdateOwned(ctx, rv.ID, intruder.ID, "hijacked", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, reviews.DeleteOwned(ctx, rv.ID, intruder.ID), domain.ErrNotFound)

	got, err := reviews.UpdateOwned(ctx, rv.ID, owner.ID, "changed my mind a bit", 3)
	require.NoError(t, err)
	assert.Equal(t, "changed my mind a bit", got.Content)
	assert.Equal(t, 3, got.Rating)
	require.NotNil(t, got.Book)
	assert.Equal(t, b.ID, got.Book.ID)

	require.NoError(t, reviews.DeleteOwned(ctx, rv.ID, owner.ID))
	_, err = reviews.Get(ctx, rv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewRepoCreateConstraints(t *testing.T) {
	db := testutil.NewDB(t)
	reviews := NewReviewRepo(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db)
	b := testutil.CreateBook(t, db)

	first := &domain.Review{UserID: u.ID, BookID: b.ID, Content: "first impressions", Rating: 4, Status: domain.ReviewPending}
	require.NoError(t, reviews.Create(ctx, first))

	dup := &domain.Review{UserID: u.ID, BookID: b.ID, Content: "second thoughts", Rating: 2, Status: domain.ReviewPending}
	assert.ErrorIs(t, reviews.Create(ctx, dup), domain.ErrConflict)

	orphan := &domain.Review{UserID: u.ID, BookID: 9999, Content: "no such book", Rating: 2, Status: domain.ReviewPending}
	assert.ErrorIs(t, reviews.Create(ctx, orphan), domain.ErrNotFound)

	ok, err := reviews.Exists(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReviewRepoListsAndModeration(t *testing.T) {
	db := testutil.NewDB(t)
	reviews := NewReviewRepo(db)
	ctx := context.Background()
	ann := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)
	b1 := testutil.CreateBook(t, db)
	b2 := testutil.CreateBook(t, db)
	r1 := testutil.CreateReview(t, db, ann, b1, 5, domain.ReviewPending, "Loved the worldbuilding")
	testutil.CreateReview(t, db, ann, b2, 3, domain.ReviewApproved, "Slow middle section")
	testutil.CreateReview(t, db, bob, b1, 1, domain.ReviewApproved, "Not for me, sorry")

	mine, err := reviews.ListForUser(ctx, ann.ID, domain.ReviewFilter{Keyword: "WORLD", Page: 1})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, r1.ID, mine.Items[0].ID)
	require.NotNil(t, mine.Items[0].Book)
	assert.Nil(t, mine.Items[0].User)

	all, err := reviews.ListForAdmin(ctx, domain.ReviewFilter{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	require.NotNil(t, all.Items[0].User)
	require.NotNil(t, all.Items[0].Book)

	approved, err := reviews.ListApprovedForBook(ctx, b1.ID)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, bob.ID, approved[0].User.ID)

	moderated, err := reviews.Moderate(ctx, r1.ID, "Loved the worldbuilding!", domain.ReviewApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewApproved, moderated.Status)

	approved, err = reviews.ListApprovedForBook(ctx, b1.ID)
	require.NoError(t, err)
	assert.Len(t, approved, 2)

	_, err = reviews.Moderate(ctx, 9999, "x", domain.ReviewApproved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKeywordWildcardsAreLiteral(t *testing.T) {
	db := testutil.NewDB(t)
	books := NewBookRepo(db)
	reviews := NewReviewRepo(db)
	ctx := context.Background()

	cotton := testutil.CreateBook(t, db, testutil.WithTitle("100% Cotton"))
	testutil.CreateBook(t, db, testutil.WithTitle("Dune"))
	testutil.CreateBook(t, db, testutil.WithTitle("Wow! Signal"))

	cases := []struct {
		keyword string
		titles  []string
	}{
		{"%", []string{"100% Cotton"}},
		{"_", nil},
		{"0% c", []string{"100% Cotton"}},
		{"!", []string{"Wow! Signal"}},
		{"d_ne", nil},
	}
	for _, tc := range cases {
		page, err := books.List(ctx, domain.BookFilter{Keyword: tc.keyword, Page: 1, Public: true})
		require.NoError(t, err, tc.keyword)
		var got []string
		for _, b := range page.Items {
			got = append(got, b.Title)
		}
		assert.Equal(t, tc.titles, got, "keyword %q", tc.keyword)
		assert.Equal(t, int64(len(tc.titles)), page.Total, "keyword %q", tc.keyword)
	}

	u := testutil.CreateUser(t, db)
	testutil.CreateReview(t, db, u, cotton, 5, domain.ReviewApproved, "Comfortable and 100% honest")
	hit, err := reviews.ListForAdmin(ctx, domain.ReviewFilter{Keyword: "100%", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), hit.Total)
	miss, err := reviews.ListForAdmin(ctx, domain.ReviewFilter{Keyword: "_", Page: 1})
	require.NoError(t, err)
	assert.Zero(t, miss.Total)
}

func TestHugePageDoesNotOverflow(t *testing.T) {
	db := testutil.NewDB(t)
	books := NewBookRepo(db)
	testutil.CreateBook(t, db)

	page, err := books.List(context.Background(), domain.BookFilter{Page: 922337203685477581})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, domain.MaxPage, page.Page)
}
