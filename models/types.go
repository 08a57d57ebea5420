package models

import "time"

// Event roles
const (
	RoleAttendee  = "ATTENDEE"
	RoleExhibitor = "EXHIBITOR"
	RoleSpeaker   = "SPEAKER"
	RoleOrganizer = "ORGANIZER"
	RoleAdmin     = "ADMIN"
)

// Bookmark target types
const (
	TargetSession   = "session"
	TargetSpeaker   = "speaker"
	TargetExhibitor = "exhibitor"
	TargetSponsor   = "sponsor"
	TargetUser      = "user"
	TargetTopic     = "topic"
)

// Notification types
const (
	NotificationMessage      = "message"
	NotificationFollow       = "follow"
	NotificationAnnouncement = "announcement"
	NotificationContact      = "contact"
	NotificationTopicReply   = "topic_reply"
)

// Request types

type CreateSessionRequest struct {
	Title       string    `json:"title" validate:"required,notblank,max=200"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	SessionType string    `json:"session_type" validate:"omitempty,max=50"`
	Track       *string   `json:"track"`
	RoomID      *string   `json:"room_id"`
}

type AddAgendaRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type CreateCustomActivityRequest struct {
	Title     string    `json:"title" validate:"required,notblank,max=200"`
	Location  *string   `json:"location" validate:"omitempty,max=200"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

type CreatePollRequest struct {
	Question  string   `json:"question" validate:"required,notblank,max=500"`
	Options   []string `json:"options" validate:"required,min=2,max=10,dive,required,max=200"`
	SessionID *string  `json:"session_id"`
}

type VoteRequest struct {
	OptionID string `json:"option_id" validate:"required"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

type AskQuestionRequest struct {
	Content     string `json:"content" validate:"required,notblank,max=1000"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type SetAnsweredRequest struct {
	Answered bool `json:"answered"`
}

type StartThreadRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,notblank,max=4000"`
}

type SaveContactRequest struct {
	ContactUserID string  `json:"contact_user_id" validate:"required"`
	Note          *string `json:"note" validate:"omitempty,max=1000"`
}

type FollowUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type FollowTopicRequest struct {
	ThreadID string `json:"thread_id" validate:"required"`
}

type ToggleBookmarkRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=session speaker exhibitor sponsor user topic"`
	TargetID   string `json:"target_id" validate:"required"`
}

type AwardPointsRequest struct {
	Action         string `json:"action" validate:"required"`
	IdempotencyKey string `json:"idempotency_key" validate:"omitempty,max=200"`
}

type AdjustPointsRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Points int    `json:"points" validate:"required"`
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=100"`
	Description *string `json:"description"`
	SortOrder   int     `json:"sort_order"`
}

type CreateTopicRequest struct {
	CategoryID string `json:"category_id" validate:"required"`
	Title      string `json:"title" validate:"required,notblank,max=200"`
	Content    string `json:"content" validate:"required,notblank,max=10000"`
}

type ReplyRequest struct {
	Content string `json:"content" validate:"required,notblank,max=10000"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}

type UpdateProfileRequest struct {
	Name       string  `json:"name" validate:"required,notblank,max=100"`
	Title      *string `json:"title" validate:"omitempty,max=100"`
	Company    *string `json:"company" validate:"omitempty,max=100"`
	Bio        *string `json:"bio" validate:"omitempty,max=2000"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	LinkedIn   *string `json:"linkedin" validate:"omitempty,max=300"`
	Twitter    *string `json:"twitter" validate:"omitempty,max=300"`
	Website    *string `json:"website" validate:"omitempty,max=300"`
	ShareEmail bool    `json:"share_email"`
	SharePhone bool    `json:"share_phone"`
}

type PutNoteRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Content   string `json:"content" validate:"required,notblank,max=10000"`
}

// Response types

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CreatedResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type AgendaAddResponse struct {
	Success        bool   `json:"success"`
	ID             string `json:"id"`
	AlreadyPresent bool   `json:"already_present"`
	Message        string `json:"message,omitempty"`
}

type VoteResponse struct {
	Success    bool   `json:"success"`
	Recorded   bool   `json:"recorded"`
	OptionID   string `json:"option_id"`
	VotesCount int    `json:"votes_count"`
}

type UpvoteResponse struct {
	Success    bool `json:"success"`
	Recorded   bool `json:"recorded"`
	VotesCount int  `json:"votes_count"`
}

type StartThreadResponse struct {
	Success  bool   `json:"success"`
	ThreadID string `json:"thread_id"`
	Created  bool   `json:"created"`
}

type SaveContactResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Created bool   `json:"created"`
	Message string `json:"message,omitempty"`
}

type MutualContactResponse struct {
	Success bool   `json:"success"`
	GivenID string `json:"given_id"`
	SavedID string `json:"saved_id"`
	Created int    `json:"created_count"`
}

type FollowResponse struct {
	Success   bool `json:"success"`
	Following bool `json:"following"`
}

type BookmarkResponse struct {
	Success    bool `json:"success"`
	Bookmarked bool `json:"bookmarked"`
}

type AwardResponse struct {
	Success   bool       `json:"success"`
	Entry     PointEntry `json:"entry"`
	Duplicate bool       `json:"duplicate"`
}

type TopicCreatedResponse struct {
	Success  bool   `json:"success"`
	ThreadID string `json:"thread_id"`
}

type PostCreatedResponse struct {
	Success    bool   `json:"success"`
	PostID     string `json:"post_id"`
	PostsCount int    `json:"posts_count"`
}

type PointsTotalResponse struct {
	UserID  string       `json:"user_id"`
	Points  int          `json:"points"`
	Entries []PointEntry `json:"entries"`
}

type DemoLoginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Domain types

type Event struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Venue       *string   `json:"venue,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type Session struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	SessionType string    `json:"session_type"`
	Track       *string   `json:"track,omitempty"`
	RoomID      *string   `json:"room_id,omitempty"`
	RoomName    *string   `json:"room_name,omitempty"`
	IsActive    bool      `json:"is_active"`
}

// AgendaEntry is either a session the user added or a custom activity.
// SessionID is nil exactly when IsCustom is true.
type AgendaEntry struct {
	ID          string    `json:"id"`
	SessionID   *string   `json:"session_id,omitempty"`
	IsCustom    bool      `json:"is_custom"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    *string   `json:"location,omitempty"`
	SessionType *string   `json:"session_type,omitempty"`
	Track       *string   `json:"track,omitempty"`
}

type Poll struct {
	ID         string       `json:"id"`
	EventID    string       `json:"event_id"`
	SessionID  *string      `json:"session_id,omitempty"`
	Question   string       `json:"question"`
	IsActive   bool         `json:"is_active"`
	CreatedAt  time.Time    `json:"created_at"`
	Options    []PollOption `json:"options"`
	MyOptionID *string      `json:"my_option_id,omitempty"`
	TotalVotes int          `json:"total_votes"`
}

type PollOption struct {
	ID         string `json:"id"`
	PollID     string `json:"poll_id"`
	Text       string `json:"text"`
	Position   int    `json:"position"`
	VotesCount int    `json:"votes_count"`
}

// UserSummary is the public card shown next to authored content
type UserSummary struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Image   *string `json:"image,omitempty"`
	Company *string `json:"company,omitempty"`
}

// Profile is a user record after privacy redaction. Email and Phone are nil
// when the owner has not opted to share them.
type Profile struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	Image      *string `json:"image,omitempty"`
	Title      *string `json:"title,omitempty"`
	Company    *string `json:"company,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	Phone      *string `json:"phone"`
	LinkedIn   *string `json:"linkedin,omitempty"`
	Twitter    *string `json:"twitter,omitempty"`
	Website    *string `json:"website,omitempty"`
	ShareEmail bool    `json:"share_email"`
	SharePhone bool    `json:"share_phone"`
}

type Question struct {
	ID          string       `json:"id"`
	SessionID   string       `json:"session_id"`
	Content     string       `json:"content"`
	IsAnonymous bool         `json:"is_anonymous"`
	IsAnswered  bool         `json:"is_answered"`
	VotesCount  int          `json:"votes_count"`
	CreatedAt   time.Time    `json:"created_at"`
	Author      *UserSummary `json:"author"` // nil when anonymous to the viewer
	UserID      string       `json:"-"`
}

type Thread struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	CreatorID     string     `json:"creator_id"`
	ParticipantID string     `json:"participant_id"`
	IsSystem      bool       `json:"is_system"`
	SystemType    *string    `json:"system_type,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type MessagePreview struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsFromMe  bool      `json:"is_from_me"`
}

type ThreadSummary struct {
	ID              string          `json:"id"`
	OtherUser       UserSummary     `json:"other_user"`
	LastMessage     *MessagePreview `json:"last_message,omitempty"`
	UnreadCount     int             `json:"unread_count"`
	IsSystem        bool            `json:"is_system"`
	SystemType      *string         `json:"system_type,omitempty"`
	LastActivity    time.Time       `json:"last_activity"`
	LastActivityAgo string          `json:"last_activity_ago"`
}

type Message struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"thread_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type ThreadDetail struct {
	Thread     Thread      `json:"thread"`
	OtherUser  UserSummary `json:"other_user"`
	Messages   []Message   `json:"messages"`
	MarkedRead int64       `json:"marked_read"`
}

type Contact struct {
	ID        string    `json:"id"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	User      Profile   `json:"user"`
}

type Bookmark struct {
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type PointEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Action    string    `json:"action"`
	Points    int       `json:"points"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	Rank   int          `json:"rank"`
	UserID string       `json:"user_id"`
	Points int          `json:"points"`
	User   *UserSummary `json:"user,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   *string   `json:"content,omitempty"`
	Link      *string   `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	MarkedRead    int64          `json:"marked_read"`
}

type TopicCategory struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	SortOrder   int           `json:"sort_order"`
	Threads     []TopicThread `json:"threads,omitempty"`
}

type TopicThread struct {
	ID         string      `json:"id"`
	CategoryID string      `json:"category_id"`
	Title      string      `json:"title"`
	Author     UserSummary `json:"author"`
	PostsCount int         `json:"posts_count"`
	LastPostAt *time.Time  `json:"last_post_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

type TopicPost struct {
	ID        string         `json:"id"`
	ThreadID  string         `json:"thread_id"`
	Author    UserSummary    `json:"author"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Comments  []TopicComment `json:"comments"`
}

type TopicComment struct {
	ID        string      `json:"id"`
	PostID    string      `json:"post_id"`
	Author    UserSummary `json:"author"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

type TopicThreadDetail struct {
	Thread    TopicThread   `json:"thread"`
	Category  TopicCategory `json:"category"`
	Posts     []TopicPost   `json:"posts"`
	Following bool          `json:"following"`
}

type Note struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	SessionTitle string    `json:"session_title"`
	Content      string    `json:"content"`
	UpdatedAt    time.Time `json:"updated_at"`
	UpdatedAgo   string    `json:"updated_ago"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
