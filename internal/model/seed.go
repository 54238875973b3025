package model

import "time"

// DefaultAdminID is the login of the seeded administrator.
const DefaultAdminID = "admin"

// Seed builds the document used when nothing has been persisted yet.
func Seed(now time.Time) *AppState {
	now = now.UTC()
	physics := &Subject{
		ID:          "s1",
		Name:        "Physics",
		Color:       "blue",
		Icon:        "atom",
		TargetClass: "Class 11",
		CreatedBy:   DefaultAdminID,
		Position:    0,
		Topics: []*Topic{
			{
				ID:          "t1",
				SubjectID:   "s1",
				Name:        "Laws of Motion",
				Description: "Newton's three laws, friction and circular motion.",
				Tags:        []string{"tag-important"},
				Materials: []*Material{
					{
						ID:           "m1",
						TopicID:      "t1",
						Type:         MaterialVideo,
						Title:        "Concept Explanation",
						URL:          "https://www.youtube.com/watch?v=kKKM8Y-u7ds",
						LastAccessed: now,
						Tags:         []string{},
						FileSize:     48 << 20,
					},
					{
						ID:           "m2",
						TopicID:      "t1",
						Type:         MaterialPDF,
						Title:        "NCERT Chapter 5",
						URL:          "https://ncert.nic.in/textbook/pdf/keph105.pdf",
						LastAccessed: now,
						Tags:         []string{},
						FileSize:     3 << 20,
					},
					{
						ID:           "m3",
						TopicID:      "t1",
						Type:         MaterialNote,
						Title:        "Formula Sheet",
						LastAccessed: now,
						Notes:        "F = ma\nImpulse = change in momentum",
						Tags:         []string{"tag-revision"},
					},
				},
			},
			{
				ID:          "t2",
				SubjectID:   "s1",
				Name:        "Work, Energy and Power",
				Description: "Work-energy theorem and conservation of energy.",
				Tags:        []string{},
				Materials:   []*Material{},
			},
		},
	}
	chemistry := &Subject{
		ID:          "s2",
		Name:        "Chemistry",
		Color:       "green",
		Icon:        "flask",
		TargetClass: "Class 11",
		CreatedBy:   DefaultAdminID,
		Position:    1,
		Topics: []*Topic{
			{
				ID:        "t3",
				SubjectID: "s2",
				Name:      "Chemical Bonding",
				Tags:      []string{},
				Materials: []*Material{
					{
						ID:           "m4",
						TopicID:      "t3",
						Type:         MaterialVideo,
						Title:        "VSEPR Theory",
						URL:          "https://www.youtube.com/watch?v=keHS-CASZfc",
						LastAccessed: now,
						Tags:         []string{},
						FileSize:     62 << 20,
					},
				},
			},
		},
	}
	maths := &Subject{
		ID:          "s3",
		Name:        "Mathematics",
		Color:       "purple",
		Icon:        "sigma",
		TargetClass: "Class 12",
		CreatedBy:   DefaultAdminID,
		Position:    2,
		Topics:      []*Topic{},
	}

	return &AppState{
		RegisteredUsers: []*RegisteredUser{
			{
				ID:       DefaultAdminID,
				Name:     "Administrator",
				Password: "admin123",
				Role:     RoleAdmin,
				Status:   StatusApproved,
				JoinedAt: now,
			},
		},
		Subjects: []*Subject{physics, chemistry, maths},
		Tags: []Tag{
			{ID: "tag-important", Name: "Important", Color: "red"},
			{ID: "tag-revision", Name: "Revision", Color: "amber"},
		},
		Stats: UserStats{
			DailyStats: map[string]DayStats{},
		},
		Ledger: []*Transaction{},
		ClassFees: map[string]float64{
			"Class 11": 1500,
			"Class 12": 1800,
		},
		RecentlyOpened: []RecentItem{},
		Settings: Settings{
			ReaderTheme: ThemeLight,
			FontScale:   1,
		},
	}
}
