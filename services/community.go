// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/mascon/auth"
	"github.com/danielhkuo/mascon/db"
	"github.com/danielhkuo/mascon/models"
)

// CommunityService runs the event's discussion board: categories, topic
// threads, posts and comments
type CommunityService struct {
	db *sql.DB
}

func NewCommunityService(conn *sql.DB) *CommunityService {
	return &CommunityService{db: conn}
}

// CreateCategory adds a board category. Organizers only.
func (s *CommunityService) CreateCategory(ctx context.Context, userID, eventID string, req models.CreateCategoryRequest) (models.TopicCategory, error) {
	if err := validateRequest(req); err != nil {
		return models.TopicCategory{}, err
	}
	if err := requireOrganizer(ctx, s.db, userID, eventID); err != nil {
		return models.TopicCategory{}, err
	}

	c := models.TopicCategory{
		ID:          auth.NewID(),
		EventID:     eventID,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topic_category (id, event_id, name, description, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.EventID, c.Name, c.Description, c.SortOrder)
	if err != nil {
		return models.TopicCategory{}, writeErr(err, "insert category", "event")
	}
	return c, nil
}

// ListCategories returns categories in sort order, each with its threads
// newest first
func (s *CommunityService) ListCategories(ctx context.Context, eventID string) ([]models.TopicCategory, error) {
	categories, err := s.categories(ctx, eventID)
	if err != nil {
		return nil, err
	}

	threads, err := s.threadsByCategory(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].Threads = threads[categories[i].ID]
		if categories[i].Threads == nil {
			categories[i].Threads = []models.TopicThread{}
		}
	}
	return categories, nil
}

func (s *CommunityService) categories(ctx context.Context, eventID string) ([]models.TopicCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, name, description, sort_order
		FROM topic_category WHERE event_id = $1
		ORDER BY sort_order, name, id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.TopicCategory{}
	for rows.Next() {
		var c models.TopicCategory
		if err := rows.Scan(&c.ID, &c.EventID, &c.Name, &c.Description, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const topicThreadCols = `t.id, t.category_id, t.title, t.posts_count, t.last_post_at, t.created_at, ` + userSummaryCols

func scanTopicThread(t *models.TopicThread) []any {
	return append([]any{&t.ID, &t.CategoryID, &t.Title, &t.PostsCount, &t.LastPostAt, &t.CreatedAt},
		scanUserSummary(&t.Author)...)
}

func (s *CommunityService) threadsByCategory(ctx context.Context, eventID string) (map[string][]models.TopicThread, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+topicThreadCols+`
		FROM topic_thread t
		JOIN topic_category c ON c.id = t.category_id
		JOIN app_user u ON u.id = t.user_id
		WHERE c.event_id = $1
		ORDER BY t.created_at DESC, t.id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query topic threads: %w", err)
	}
	defer rows.Close()

	byCategory := make(map[string][]models.TopicThread)
	for rows.Next() {
		var t models.TopicThread
		if err := rows.Scan(scanTopicThread(&t)...); err != nil {
			return nil, fmt.Errorf("scan topic thread: %w", err)
		}
		byCategory[t.CategoryID] = append(byCategory[t.CategoryID], t)
	}
	return byCategory, rows.Err()
}

// CreateTopic opens a thread with its first post. The author follows the
// new thread.
func (s *CommunityService) CreateTopic(ctx context.Context, userID, eventID string, req models.CreateTopicRequest) (models.TopicCreatedResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.TopicCreatedResponse{}, err
	}
	ok, err := exists(ctx, s.db, `
		SELECT EXISTS(SELECT 1 FROM topic_category WHERE id = $1 AND event_id = $2)
	`, req.CategoryID, eventID)
	if err != nil {
		return models.TopicCreatedResponse{}, fmt.Errorf("query category: %w", err)
	}
	if !ok {
		return models.TopicCreatedResponse{}, notFound("category")
	}

	threadID := auth.NewID()
	ts := now()
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO topic_thread (id, category_id, user_id, title, posts_count, last_post_at, created_at)
			VALUES ($1, $2, $3, $4, 1, $5, $5)
		`, threadID, req.CategoryID, userID, req.Title, ts); err != nil {
			return writeErr(err, "insert topic thread", "user")
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO topic_post (id, thread_id, user_id, content, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, auth.NewID(), threadID, userID, req.Content, ts); err != nil {
			return fmt.Errorf("insert first post: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO topic_follow (follower_id, thread_id, created_at) VALUES ($1, $2, $3)
			ON CONFLICT (follower_id, thread_id) DO NOTHING
		`, userID, threadID, ts); err != nil {
			return fmt.Errorf("insert topic follow: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.TopicCreatedResponse{}, err
	}

	return models.TopicCreatedResponse{Success: true, ThreadID: threadID}, nil
}

func topicInEvent(ctx context.Context, q querier, threadID, eventID string) (string, error) {
	var title string
	err := q.QueryRowContext(ctx, `
		SELECT t.title FROM topic_thread t
		JOIN topic_category c ON c.id = t.category_id
		WHERE t.id = $1 AND c.event_id = $2
	`, threadID, eventID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", notFound("thread")
	}
	if err != nil {
		return "", fmt.Errorf("query topic thread: %w", err)
	}
	return title, nil
}

// Reply adds a post to a thread, keeps its counters current and notifies
// the thread's followers
func (s *CommunityService) Reply(ctx context.Context, userID, eventID, threadID string, req models.ReplyRequest) (models.PostCreatedResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.PostCreatedResponse{}, err
	}
	title, err := topicInEvent(ctx, s.db, threadID, eventID)
	if err != nil {
		return models.PostCreatedResponse{}, err
	}

	resp := models.PostCreatedResponse{Success: true, PostID: auth.NewID()}
	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		ts := now()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO topic_post (id, thread_id, user_id, content, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, resp.PostID, threadID, userID, req.Content, ts); err != nil {
			return writeErr(err, "insert post", "user")
		}

		if err := tx.QueryRowContext(ctx, `
			UPDATE topic_thread SET posts_count = posts_count + 1, last_post_at = CASE
				WHEN last_post_at IS NULL OR last_post_at < $1 THEN $1
				ELSE last_post_at END
			WHERE id = $2 RETURNING posts_count
		`, ts, threadID).Scan(&resp.PostsCount); err != nil {
			return fmt.Errorf("update thread counters: %w", err)
		}

		followers, err := topicFollowers(ctx, tx, threadID, userID)
		if err != nil {
			return err
		}
		if len(followers) == 0 {
			return nil
		}

		author, err := userSummary(ctx, tx, userID)
		if err != nil {
			return err
		}
		preview := truncate(req.Content, previewLength)
		link := "/community/" + threadID
		for _, f := range followers {
			if err := notifyTx(ctx, tx, notice{
				UserID:  f,
				EventID: eventID,
				Type:    models.NotificationTopicReply,
				Title:   displayName(author.Name) + " replied to " + title,
				Content: &preview,
				Link:    &link,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.PostCreatedResponse{}, err
	}

	return resp, nil
}

func topicFollowers(ctx context.Context, q querier, threadID, exceptID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT follower_id FROM topic_follow WHERE thread_id = $1 AND follower_id <> $2
		ORDER BY follower_id
	`, threadID, exceptID)
	if err != nil {
		return nil, fmt.Errorf("query followers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan follower: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Comment attaches a comment to a post
func (s *CommunityService) Comment(ctx context.Context, userID, eventID, postID string, req models.CommentRequest) (models.TopicComment, error) {
	if err := validateRequest(req); err != nil {
		return models.TopicComment{}, err
	}
	ok, err := exists(ctx, s.db, `
		SELECT EXISTS(
			SELECT 1 FROM topic_post p
			JOIN topic_thread t ON t.id = p.thread_id
			JOIN topic_category c ON c.id = t.category_id
			WHERE p.id = $1 AND c.event_id = $2
		)
	`, postID, eventID)
	if err != nil {
		return models.TopicComment{}, fmt.Errorf("query post: %w", err)
	}
	if !ok {
		return models.TopicComment{}, notFound("post")
	}

	c := models.TopicComment{
		ID:        auth.NewID(),
		PostID:    postID,
		Content:   req.Content,
		CreatedAt: now(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO topic_comment (id, post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.PostID, userID, c.Content, c.CreatedAt)
	if err != nil {
		return models.TopicComment{}, writeErr(err, "insert comment", "user")
	}

	c.Author, err = userSummary(ctx, s.db, userID)
	if err != nil {
		return models.TopicComment{}, err
	}
	return c, nil
}

// GetThread returns a thread with its posts and their comments oldest first
func (s *CommunityService) GetThread(ctx context.Context, viewerID, eventID, threadID string) (models.TopicThreadDetail, error) {
	var d models.TopicThreadDetail
	dest := append(scanTopicThread(&d.Thread),
		&d.Category.ID, &d.Category.EventID, &d.Category.Name, &d.Category.Description, &d.Category.SortOrder)
	err := s.db.QueryRowContext(ctx, `
		SELECT `+topicThreadCols+`, c.id, c.event_id, c.name, c.description, c.sort_order
		FROM topic_thread t
		JOIN topic_category c ON c.id = t.category_id
		JOIN app_user u ON u.id = t.user_id
		WHERE t.id = $1 AND c.event_id = $2
	`, threadID, eventID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TopicThreadDetail{}, notFound("thread")
	}
	if err != nil {
		return models.TopicThreadDetail{}, fmt.Errorf("query topic thread: %w", err)
	}

	d.Posts, err = s.posts(ctx, threadID)
	if err != nil {
		return models.TopicThreadDetail{}, err
	}

	comments, err := s.comments(ctx, threadID)
	if err != nil {
		return models.TopicThreadDetail{}, err
	}
	for i := range d.Posts {
		if c, ok := comments[d.Posts[i].ID]; ok {
			d.Posts[i].Comments = c
		}
	}

	d.Following, err = exists(ctx, s.db, `
		SELECT EXISTS(SELECT 1 FROM topic_follow WHERE follower_id = $1 AND thread_id = $2)
	`, viewerID, threadID)
	if err != nil {
		return models.TopicThreadDetail{}, fmt.Errorf("query topic follow: %w", err)
	}

	return d, nil
}

func (s *CommunityService) posts(ctx context.Context, threadID string) ([]models.TopicPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.thread_id, p.content, p.created_at, `+userSummaryCols+`
		FROM topic_post p
		JOIN app_user u ON u.id = p.user_id
		WHERE p.thread_id = $1
		ORDER BY p.created_at ASC, p.id ASC
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.TopicPost{}
	for rows.Next() {
		p := models.TopicPost{Comments: []models.TopicComment{}}
		if err := rows.Scan(append([]any{&p.ID, &p.ThreadID, &p.Content, &p.CreatedAt}, scanUserSummary(&p.Author)...)...); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *CommunityService) comments(ctx context.Context, threadID string) (map[string][]models.TopicComment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.content, c.created_at, `+userSummaryCols+`
		FROM topic_comment c
		JOIN topic_post p ON p.id = c.post_id
		JOIN app_user u ON u.id = c.user_id
		WHERE p.thread_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	byPost := make(map[string][]models.TopicComment)
	for rows.Next() {
		var c models.TopicComment
		if err := rows.Scan(append([]any{&c.ID, &c.PostID, &c.Content, &c.CreatedAt}, scanUserSummary(&c.Author)...)...); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	return byPost, rows.Err()
}

// ToggleFollow follows a topic thread, or unfollows if already following
func (s *CommunityService) ToggleFollow(ctx context.Context, userID, eventID string, req models.FollowTopicRequest) (models.FollowResponse, error) {
	if err := validateRequest(req); err != nil {
		return models.FollowResponse{}, err
	}
	if _, err := topicInEvent(ctx, s.db, req.ThreadID, eventID); err != nil {
		return models.FollowResponse{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM topic_follow WHERE follower_id = $1 AND thread_id = $2
	`, userID, req.ThreadID)
	if err != nil {
		return models.FollowResponse{}, fmt.Errorf("delete topic follow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.FollowResponse{}, err
	}
	if n > 0 {
		return models.FollowResponse{Success: true, Following: false}, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO topic_follow (follower_id, thread_id, created_at) VALUES ($1, $2, $3)
	`, userID, req.ThreadID, now())
	if err != nil && !db.IsUniqueViolation(err) {
		return models.FollowResponse{}, writeErr(err, "insert topic follow", "user")
	}

	return models.FollowResponse{Success: true, Following: true}, nil
}
