package store

import (
	"time"

	"alumniconnect/internal/model"
)

// SeedUsers is the demo roster written on first run.
func SeedUsers() []model.User {
	return []model.User{
		{
			ID:               "user_1",
			Name:             "Sarah Jenkins",
			Email:            "sarah@example.com",
			Role:             model.RoleAlumni,
			Headline:         "Software Engineer at Google | CS Class of 2020",
			About:            "I specialize in distributed systems and cloud computing. Happy to mentor students interested in FAANG interviews.",
			Location:         "Mountain View, CA",
			Avatar:           "https://picsum.photos/id/64/200/200",
			Skills:           []string{"Java", "Distributed Systems", "Cloud Architecture"},
			Connections:      []string{},
			IncomingRequests: []string{},
			ProfileViews:     12,
		},
		{
			ID:               "user_2",
			Name:             "David Chen",
			Email:            "david@example.com",
			Role:             model.RoleAlumni,
			Headline:         "Product Manager at Spotify | MBA 2019",
			About:            "Transitioned from engineering to product management. I love helping engineers understand the business side.",
			Location:         "New York, NY",
			Avatar:           "https://picsum.photos/id/91/200/200",
			Skills:           []string{"Product Management", "Agile", "Strategy"},
			Connections:      []string{},
			IncomingRequests: []string{},
			ProfileViews:     8,
		},
		{
			ID:               "user_3",
			Name:             "Elena Rodriguez",
			Email:            "elena@example.com",
			Role:             model.RoleAlumni,
			Headline:         "AI Researcher at OpenAI | PhD in ML",
			About:            "Researching large language models and reinforcement learning.",
			Location:         "San Francisco, CA",
			Avatar:           "https://picsum.photos/id/65/200/200",
			Skills:           []string{"Python", "PyTorch", "Machine Learning"},
			Connections:      []string{},
			IncomingRequests: []string{},
			ProfileViews:     45,
		},
	}
}

// SeedPosts returns the two demo posts with timestamps relative to now.
func SeedPosts(now time.Time) []model.Post {
	ms := now.UnixMilli()
	return []model.Post{
		{
			ID:             "post_1",
			AuthorID:       "user_1",
			AuthorName:     "Sarah Jenkins",
			AuthorHeadline: "Software Engineer at Google",
			Content:        "Just finished a great workshop on Kubernetes scaling. If any juniors are struggling with container orchestration concepts, feel free to reach out!",
			Timestamp:      ms - 3600000,
			Likes:          []string{"user_2", "user_3"},
			Comments: []model.Comment{
				{
					ID:         "c1",
					AuthorID:   "user_2",
					AuthorName: "David Chen",
					Content:    "This is super helpful, Sarah! Shared with my mentees.",
					Timestamp:  ms - 3000000,
				},
			},
		},
		{
			ID:             "post_2",
			AuthorID:       "user_2",
			AuthorName:     "David Chen",
			AuthorHeadline: "Product Manager at Spotify",
			Content:        "Hiring season is coming up! Here are my top 5 tips for cracking the PM interview. #career #productmanagement",
			Timestamp:      ms - 7200000,
			Likes:          []string{"user_1"},
			Comments:       []model.Comment{},
		},
	}
}
