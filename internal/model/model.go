package model

import "time"

// MaterialType identifies the kind of study asset.
type MaterialType string

const (
	MaterialPDF   MaterialType = "PDF"
	MaterialVideo MaterialType = "VIDEO"
	MaterialNote  MaterialType = "NOTE"
)

// Valid reports whether t is one of the known material types.
func (t MaterialType) Valid() bool {
	switch t {
	case MaterialPDF, MaterialVideo, MaterialNote:
		return true
	}
	return false
}

// Role of a registered user.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
	RoleTeacher Role = "TEACHER"
)

// UserStatus gates whether a registered user may log in.
type UserStatus string

const (
	StatusPending  UserStatus = "PENDING"
	StatusApproved UserStatus = "APPROVED"
	StatusBlocked  UserStatus = "BLOCKED"
)

// TransactionType separates money in from money out.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// TransactionCategory classifies ledger entries.
type TransactionCategory string

const (
	CategoryFee       TransactionCategory = "FEE"
	CategorySalary    TransactionCategory = "SALARY"
	CategoryRent      TransactionCategory = "RENT"
	CategoryUtilities TransactionCategory = "UTILITIES"
	CategorySupplies  TransactionCategory = "SUPPLIES"
	CategoryOther     TransactionCategory = "OTHER"
)

// PaymentStatus of a ledger entry.
type PaymentStatus string

const (
	Paid    PaymentStatus = "PAID"
	Pending PaymentStatus = "PENDING"
)

// ReaderTheme is the material reader colour scheme.
type ReaderTheme string

const (
	ThemeLight ReaderTheme = "light"
	ThemeDark  ReaderTheme = "dark"
	ThemeSepia ReaderTheme = "sepia"
)

// Subject is a top-level curriculum module scoped to a target class.
type Subject struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	TargetClass string   `json:"targetClass"`
	CreatedBy   string   `json:"createdBy,omitempty"`
	Position    int      `json:"position"`
	Topics      []*Topic `json:"topics"`
}

// Topic is a unit of study inside a Subject. SubjectID is a lookup key,
// not an ownership pointer.
type Topic struct {
	ID            string      `json:"id"`
	SubjectID     string      `json:"subjectId"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	IsCompleted   bool        `json:"isCompleted"`
	IsPinned      bool        `json:"isPinned"`
	Tags          []string    `json:"tags"`
	Materials     []*Material `json:"materials"`
	LastStudiedAt *time.Time  `json:"lastStudiedAt,omitempty"`
}

// Material is a single study asset belonging to a Topic.
type Material struct {
	ID               string       `json:"id"`
	TopicID          string       `json:"topicId"`
	Type             MaterialType `json:"type"`
	Title            string       `json:"title"`
	URL              string       `json:"url"`
	LocalFileKey     string       `json:"localFileKey,omitempty"`
	LastAccessed     time.Time    `json:"lastAccessed"`
	Progress         int          `json:"progress"`
	LastPage         int          `json:"lastPage,omitempty"`
	VideoPosition    int          `json:"videoPosition,omitempty"`
	Bookmarks        []int        `json:"bookmarks,omitempty"`
	IsFavorite       bool         `json:"isFavorite"`
	Notes            string       `json:"notes"`
	Tags             []string     `json:"tags"`
	IsDownloaded     bool         `json:"isDownloaded"`
	DownloadProgress *int         `json:"downloadProgress,omitempty"`
	FileSize         int64        `json:"fileSize,omitempty"`
}

// Downloading reports whether a simulated download is in flight.
func (m *Material) Downloading() bool {
	return m.DownloadProgress != nil && !m.IsDownloaded
}

// Position returns the type-specific reading position.
func (m *Material) Position() int {
	switch m.Type {
	case MaterialVideo:
		return m.VideoPosition
	case MaterialPDF:
		return m.LastPage
	}
	return 0
}

// RegisteredUser is an account known to the desk. Passwords are stored as
// entered; there is no security model.
type RegisteredUser struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Password        string            `json:"password"`
	Role            Role              `json:"role"`
	Status          UserStatus        `json:"status"`
	StudentClass    string            `json:"studentClass,omitempty"`
	Section         string            `json:"section,omitempty"`
	Mobile          string            `json:"mobile,omitempty"`
	Subjects        []string          `json:"subjects,omitempty"`
	AssignedClasses []string          `json:"assignedClasses,omitempty"`
	CustomFee       *float64          `json:"customFee,omitempty"`
	Documents       map[string]string `json:"documents,omitempty"`
	AvatarKey       string            `json:"avatarKey,omitempty"`
	JoinedAt        time.Time         `json:"joinedAt"`
}

// IsAdmin reports whether u administers the desk.
func (u *RegisteredUser) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// IsTeacher reports whether u is a teacher.
func (u *RegisteredUser) IsTeacher() bool { return u != nil && u.Role == RoleTeacher }

// Transaction is a ledger entry.
type Transaction struct {
	ID           string              `json:"id"`
	Type         TransactionType     `json:"type"`
	Category     TransactionCategory `json:"category"`
	Amount       float64             `json:"amount"`
	GST          float64             `json:"gst"`
	TotalWithGST float64             `json:"totalWithGst"`
	Date         time.Time           `json:"date"`
	PayerID      string              `json:"payerId,omitempty"`
	PayerName    string              `json:"payerName,omitempty"`
	PayerMobile  string              `json:"payerMobile,omitempty"`
	Description  string              `json:"description,omitempty"`
	Status       PaymentStatus       `json:"status"`
}

// DayStats holds the study minutes recorded for one calendar day.
type DayStats struct {
	TotalMinutes int `json:"totalMinutes"`
	PDFMinutes   int `json:"pdfMinutes"`
	VideoMinutes int `json:"videoMinutes"`
	NoteMinutes  int `json:"noteMinutes"`
}

// UserStats aggregates study activity.
type UserStats struct {
	DailyStats           map[string]DayStats `json:"dailyStats"`
	TotalTopicsCompleted int                 `json:"totalTopicsCompleted"`
	CurrentStreak        int                 `json:"currentStreak"`
	LastStudyDate        string              `json:"lastStudyDate"`
}

// Tag is a label that topics and materials refer to by id.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// RecentItem is an entry of the recently opened list.
type RecentItem struct {
	MaterialID string       `json:"materialId"`
	TopicID    string       `json:"topicId"`
	SubjectID  string       `json:"subjectId"`
	Title      string       `json:"title"`
	Type       MaterialType `json:"type"`
	OpenedAt   time.Time    `json:"openedAt"`
}

// Settings are the reader and application preferences stored in the document.
type Settings struct {
	ReaderTheme  ReaderTheme `json:"readerTheme"`
	IsPro        bool        `json:"isPro"`
	FontScale    float64     `json:"fontScale"`
	ReduceMotion bool        `json:"reduceMotion"`
}

// AppState is the whole persisted document.
type AppState struct {
	CurrentUser     *RegisteredUser    `json:"currentUser"`
	RegisteredUsers []*RegisteredUser  `json:"registeredUsers"`
	Subjects        []*Subject         `json:"subjects"`
	Tags            []Tag              `json:"tags"`
	Stats           UserStats          `json:"stats"`
	Ledger          []*Transaction     `json:"ledger"`
	ClassFees       map[string]float64 `json:"classFees"`
	RecentlyOpened  []RecentItem       `json:"recentlyOpened"`
	Settings        Settings           `json:"settings"`
}

// MaxRecent bounds AppState.RecentlyOpened.
const MaxRecent = 5

// DateKey formats t as the ISO date used to key daily stats.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
