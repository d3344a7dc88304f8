package views

import "github.com/yigit/unihub/internal/app/models"

// FeedItem is a post with its like record and comment count
type FeedItem struct {
	models.Post
	Likes        models.LikeRecord `json:"likes"`
	CommentCount int               `json:"commentCount"`
}

// BuildFeed joins posts with their likes and comments, keeping post order
func BuildFeed(posts []models.Post, likes map[string]models.LikeRecord, comments map[string][]models.Comment) []FeedItem {
	feed := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		feed = append(feed, FeedItem{
			Post:         p,
			Likes:        likes[p.ID],
			CommentCount: len(comments[p.ID]),
		})
	}
	return feed
}
