// Package memory provides an in-memory Store used by tests and by local
// development without PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

type Store struct {
	mu sync.RWMutex

	users    map[int]models.User
	photos   map[int]models.Photo
	tags     map[int]models.Tag
	comments map[int]models.Comment
	ratings  map[int]models.Rating

	// photoID -> set of userIDs that liked it
	likes map[int]map[int]bool
	// photoID -> ordered tag ids
	photoTags map[int][]int

	nextUser, nextPhoto, nextTag, nextComment, nextRating int
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:     make(map[int]models.User),
		photos:    make(map[int]models.Photo),
		tags:      make(map[int]models.Tag),
		comments:  make(map[int]models.Comment),
		ratings:   make(map[int]models.Rating),
		likes:     make(map[int]map[int]bool),
		photoTags: make(map[int][]int),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return models.User{}, storage.ErrDuplicate
		}
	}
	s.nextUser++
	user.ID = s.nextUser
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id int) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) CountUsers(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *Store) UpdateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	existing.Username = user.Username
	existing.PasswordHash = user.PasswordHash
	s.users[user.ID] = existing
	return existing, nil
}

func (s *Store) UpdateRefreshToken(_ context.Context, userID int, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.RefreshToken = token
	s.users[userID] = u
	return nil
}

func (s *Store) ConfirmEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			u.ConfirmedEmail = true
			s.users[id] = u
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) SetBanned(_ context.Context, email string, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			u.Banned = banned
			s.users[id] = u
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) SetRole(_ context.Context, email string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			u.Role = role
			s.users[id] = u
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) SetAvatar(_ context.Context, userID int, url string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	u.Avatar = url
	s.users[userID] = u
	return u, nil
}

func (s *Store) DeleteUser(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	for pid, p := range s.photos {
		if p.UserID == id {
			delete(s.photos, pid)
			delete(s.likes, pid)
			delete(s.photoTags, pid)
		}
	}
	return nil
}

// --- PhotoStore -------------------------------------------------------------

func (s *Store) CreatePhoto(_ context.Context, photo models.Photo, tags []string) (models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPhoto++
	photo.ID = s.nextPhoto
	now := time.Now().UTC()
	photo.CreatedAt = now
	photo.UpdatedAt = now
	photo.Tags = s.attachTagsLocked(photo.ID, photo.UserID, tags)
	s.photos[photo.ID] = photo
	return photo, nil
}

func (s *Store) GetPhoto(_ context.Context, id int) (models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.photos[id]
	if !ok {
		return models.Photo{}, storage.ErrNotFound
	}
	return s.hydratePhotoLocked(p), nil
}

func (s *Store) ListPhotos(_ context.Context, userID, skip, limit int) ([]models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var photos []models.Photo
	for _, p := range s.photos {
		if userID == 0 || p.UserID == userID {
			photos = append(photos, s.hydratePhotoLocked(p))
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		if photos[i].CreatedAt.Equal(photos[j].CreatedAt) {
			return photos[i].ID > photos[j].ID
		}
		return photos[i].CreatedAt.After(photos[j].CreatedAt)
	})

	if skip < 0 {
		skip = 0
	}
	if skip >= len(photos) {
		return nil, nil
	}
	photos = photos[skip:]
	if limit > 0 && limit < len(photos) {
		photos = photos[:limit]
	}
	return photos, nil
}

func (s *Store) UpdatePhoto(_ context.Context, photo models.Photo, tags []string) (models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.photos[photo.ID]
	if !ok {
		return models.Photo{}, storage.ErrNotFound
	}
	existing.Description = photo.Description
	existing.UpdatedAt = time.Now().UTC()
	if tags != nil {
		s.photoTags[photo.ID] = nil
		existing.Tags = s.attachTagsLocked(photo.ID, existing.UserID, tags)
	}
	s.photos[photo.ID] = existing
	return s.hydratePhotoLocked(existing), nil
}

func (s *Store) DeletePhoto(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photos[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.photos, id)
	delete(s.likes, id)
	delete(s.photoTags, id)
	for cid, c := range s.comments {
		if c.PhotoID == id {
			delete(s.comments, cid)
		}
	}
	for rid, r := range s.ratings {
		if r.PhotoID == id {
			delete(s.ratings, rid)
		}
	}
	return nil
}

func (s *Store) SetQRURL(_ context.Context, id int, url string) (models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[id]
	if !ok {
		return models.Photo{}, storage.ErrNotFound
	}
	p.QRURL = url
	s.photos[id] = p
	return s.hydratePhotoLocked(p), nil
}

func (s *Store) AddLike(_ context.Context, photoID, userID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photos[photoID]; !ok {
		return false, storage.ErrNotFound
	}
	if s.likes[photoID] == nil {
		s.likes[photoID] = make(map[int]bool)
	}
	if s.likes[photoID][userID] {
		return false, nil
	}
	s.likes[photoID][userID] = true
	return true, nil
}

func (s *Store) RemoveLike(_ context.Context, photoID, userID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.likes[photoID][userID] {
		return false, nil
	}
	delete(s.likes[photoID], userID)
	return true, nil
}

// --- TagStore ---------------------------------------------------------------

func (s *Store) CreateTag(_ context.Context, title string, userID int) (models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tagByTitleLocked(title); ok {
		return models.Tag{}, storage.ErrDuplicate
	}
	return s.createTagLocked(title, userID), nil
}

func (s *Store) ListTags(_ context.Context, userID, skip, limit int) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var tags []models.Tag
	for _, t := range s.tags {
		if userID == 0 || t.UserID == userID {
			tags = append(tags, t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	if skip < 0 {
		skip = 0
	}
	if skip >= len(tags) {
		return nil, nil
	}
	tags = tags[skip:]
	if limit > 0 && limit < len(tags) {
		tags = tags[:limit]
	}
	return tags, nil
}

func (s *Store) GetTag(_ context.Context, id int) (models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tags[id]
	if !ok {
		return models.Tag{}, storage.ErrNotFound
	}
	return t, nil
}

func (s *Store) UpdateTag(_ context.Context, id int, title string) (models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tags[id]
	if !ok {
		return models.Tag{}, storage.ErrNotFound
	}
	if other, ok := s.tagByTitleLocked(title); ok && other.ID != id {
		return models.Tag{}, storage.ErrDuplicate
	}
	t.Title = title
	s.tags[id] = t
	return t, nil
}

func (s *Store) DeleteTag(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tags, id)
	for pid, ids := range s.photoTags {
		kept := ids[:0]
		for _, tid := range ids {
			if tid != id {
				kept = append(kept, tid)
			}
		}
		s.photoTags[pid] = kept
	}
	return nil
}

// --- CommentStore -----------------------------------------------------------

func (s *Store) CreateComment(_ context.Context, comment models.Comment) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photos[comment.PhotoID]; !ok {
		return models.Comment{}, storage.ErrNotFound
	}
	s.nextComment++
	comment.ID = s.nextComment
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	s.comments[comment.ID] = comment
	return comment, nil
}

func (s *Store) ListCommentsByPhoto(_ context.Context, photoID int) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var comments []models.Comment
	for _, c := range s.comments {
		if c.PhotoID == photoID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (s *Store) GetComment(_ context.Context, id int) (models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return models.Comment{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) UpdateComment(_ context.Context, id int, text string) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return models.Comment{}, storage.ErrNotFound
	}
	c.Text = text
	c.UpdatedAt = time.Now().UTC()
	s.comments[id] = c
	return c, nil
}

func (s *Store) DeleteComment(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

// --- RatingStore ------------------------------------------------------------

func (s *Store) CreateRating(_ context.Context, rating models.Rating) (models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photos[rating.PhotoID]; !ok {
		return models.Rating{}, storage.ErrNotFound
	}
	for _, r := range s.ratings {
		if r.PhotoID == rating.PhotoID && r.UserID == rating.UserID {
			return models.Rating{}, storage.ErrDuplicate
		}
	}
	s.nextRating++
	rating.ID = s.nextRating
	rating.CreatedAt = time.Now().UTC()
	s.ratings[rating.ID] = rating
	return rating, nil
}

func (s *Store) ListRatingsByPhoto(_ context.Context, photoID int) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ratings []models.Rating
	for _, r := range s.ratings {
		if r.PhotoID == photoID {
			ratings = append(ratings, r)
		}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}

func (s *Store) GetRating(_ context.Context, id int) (models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ratings[id]
	if !ok {
		return models.Rating{}, storage.ErrNotFound
	}
	return r, nil
}

func (s *Store) DeleteRating(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ratings[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.ratings, id)
	return nil
}

// --- helpers ----------------------------------------------------------------

func (s *Store) tagByTitleLocked(title string) (models.Tag, bool) {
	for _, t := range s.tags {
		if strings.EqualFold(t.Title, title) {
			return t, true
		}
	}
	return models.Tag{}, false
}

func (s *Store) createTagLocked(title string, userID int) models.Tag {
	s.nextTag++
	t := models.Tag{ID: s.nextTag, Title: title, UserID: userID, CreatedAt: time.Now().UTC()}
	s.tags[t.ID] = t
	return t
}

func (s *Store) attachTagsLocked(photoID, userID int, titles []string) []models.Tag {
	tags := make([]models.Tag, 0, len(titles))
	for _, title := range titles {
		t, ok := s.tagByTitleLocked(title)
		if !ok {
			t = s.createTagLocked(title, userID)
		}
		s.photoTags[photoID] = append(s.photoTags[photoID], t.ID)
		tags = append(tags, t)
	}
	return tags
}

func (s *Store) hydratePhotoLocked(p models.Photo) models.Photo {
	p.Likes = len(s.likes[p.ID])
	tags := make([]models.Tag, 0, len(s.photoTags[p.ID]))
	for _, tid := range s.photoTags[p.ID] {
		if t, ok := s.tags[tid]; ok {
			tags = append(tags, t)
		}
	}
	p.Tags = tags
	return p
}
