package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/artconnect/backend/internal/models"
	"github.com/artconnect/backend/pkg/mailer"
	"github.com/artconnect/backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the document store's atomic
// operation semantics (set-add/remove, floored counters, conditional
// status update), so the engagement, relationship and order engines can be
// exercised through the handlers without a live store.

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func (r *fakePostRepo) add(post *models.Post) string {
	post.ID = primitive.NewObjectID()
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}
	if post.CommentsList == nil {
		post.CommentsList = []models.Comment{}
	}
	id := post.ID.Hex()
	r.posts[id] = post
	return id
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	r.add(post)
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *post
	copied.LikedBy = append([]string{}, post.LikedBy...)
	copied.CommentsList = append([]models.Comment{}, post.CommentsList...)
	return &copied, nil
}

func (r *fakePostRepo) GetPostsByUserID(_ context.Context, userID string, _, _ int64) ([]models.Post, error) {
	var posts []models.Post
	for _, p := range r.posts {
		if p.UserID == userID {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) GetAllPosts(_ context.Context, _, _ int64) ([]models.Post, error) {
	var posts []models.Post
	for _, p := range r.posts {
		posts = append(posts, *p)
	}
	return posts, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	if _, ok := r.posts[id]; !ok {
		return models.ErrNotFound
	}
	r.posts[id] = post
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) CountPostsByUserID(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, p := range r.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) ToggleLike(_ context.Context, postID, userID string) (bool, error) {
	post, ok := r.posts[postID]
	if !ok {
		return false, models.ErrNotFound
	}
	for i, id := range post.LikedBy {
		if id == userID {
			post.LikedBy = append(post.LikedBy[:i], post.LikedBy[i+1:]...)
			if post.Likes > 0 {
				post.Likes--
			}
			return false, nil
		}
	}
	post.LikedBy = append(post.LikedBy, userID)
	post.Likes++
	return true, nil
}

func (r *fakePostRepo) AddComment(_ context.Context, postID string, comment models.Comment) error {
	post, ok := r.posts[postID]
	if !ok {
		return models.ErrNotFound
	}
	post.CommentsList = append(post.CommentsList, comment)
	post.Comments++
	return nil
}

func (r *fakePostRepo) IncrementShares(_ context.Context, postID string) error {
	post, ok := r.posts[postID]
	if !ok {
		return models.ErrNotFound
	}
	post.Shares++
	return nil
}

type fakeFollowRepo struct {
	followers map[string][]string
	following map[string][]string
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{
		followers: map[string][]string{},
		following: map[string][]string{},
	}
}

func addToSet(set []string, member string) []string {
	for _, m := range set {
		if m == member {
			return set
		}
	}
	return append(set, member)
}

func pull(set []string, member string) []string {
	for i, m := range set {
		if m == member {
			return append(set[:i], set[i+1:]...)
		}
	}
	return set
}

func (r *fakeFollowRepo) Follow(_ context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return models.ErrSelfFollow
	}
	r.following[followerID] = addToSet(r.following[followerID], targetID)
	r.followers[targetID] = addToSet(r.followers[targetID], followerID)
	return nil
}

func (r *fakeFollowRepo) Unfollow(_ context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return nil
	}
	r.following[followerID] = pull(r.following[followerID], targetID)
	r.followers[targetID] = pull(r.followers[targetID], followerID)
	return nil
}

func (r *fakeFollowRepo) IsFollowing(_ context.Context, followerID, targetID string) (bool, error) {
	for _, id := range r.following[followerID] {
		if id == targetID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFollowRepo) GetFollowers(_ context.Context, userID string) ([]string, error) {
	return append([]string{}, r.followers[userID]...), nil
}

func (r *fakeFollowRepo) GetFollowing(_ context.Context, userID string) ([]string, error) {
	return append([]string{}, r.following[userID]...), nil
}

func (r *fakeFollowRepo) GetFollowersCount(_ context.Context, userID string) (int64, error) {
	return int64(len(r.followers[userID])), nil
}

func (r *fakeFollowRepo) GetFollowingCount(_ context.Context, userID string) (int64, error) {
	return int64(len(r.following[userID])), nil
}

type fakePurchaseRepo struct {
	purchases map[string]*models.Purchase
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: map[string]*models.Purchase{}}
}

func (r *fakePurchaseRepo) CreatePurchase(_ context.Context, purchase *models.Purchase) error {
	purchase.ID = primitive.NewObjectID()
	purchase.Status = models.StatusPending
	purchase.CreatedAt = time.Now()
	purchase.UpdatedAt = purchase.CreatedAt
	r.purchases[purchase.ID.Hex()] = purchase
	return nil
}

func (r *fakePurchaseRepo) GetPurchaseByID(_ context.Context, id string) (*models.Purchase, error) {
	purchase, ok := r.purchases[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *purchase
	return &copied, nil
}

func (r *fakePurchaseRepo) GetPurchaseByIdempotencyKey(_ context.Context, buyerID, key string) (*models.Purchase, error) {
	for _, p := range r.purchases {
		if p.IdempotencyKey == key && p.BuyerID == buyerID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakePurchaseRepo) GetPurchasesByBuyerID(_ context.Context, buyerID string, status models.OrderStatus) ([]models.Purchase, error) {
	var out []models.Purchase
	for _, p := range r.purchases {
		if p.BuyerID == buyerID && (status == "" || p.Status == status) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) GetPurchasesByArtistID(_ context.Context, artistID string, status models.OrderStatus) ([]models.Purchase, error) {
	var out []models.Purchase
	for _, p := range r.purchases {
		if p.ArtistID == artistID && (status == "" || p.Status == status) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) UpdateStatus(_ context.Context, id string, from, to models.OrderStatus, at time.Time) error {
	purchase, ok := r.purchases[id]
	if !ok {
		return models.ErrNotFound
	}
	if purchase.Status != from {
		return models.ErrStatusConflict
	}
	purchase.Status = to
	purchase.UpdatedAt = at
	if to == models.StatusDelivered {
		purchase.DeliveredAt = &at
	}
	return nil
}

// newTestContext builds an echo context carrying the given session, bound to
// a JSON request body when one is provided.
func newTestContext(t *testing.T, method, path string, body interface{}, sess *models.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set("session", sess)
	}
	return c, rec
}

func disabledMailer() *mailer.Mailer {
	return mailer.New("", 0, "", "", "")
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return http.StatusOK
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return httpErr.Code
}
