package repositories

// Blob store keys. The layout is shared with existing stored data.
const (
	KeyAnnouncements       = "announcements_list"
	KeyClubs               = "clubs_list_v1"
	KeyClubQueue           = "club_queue_v1"
	KeyClubQueuePending    = "club_queue_v1_pending"
	KeyChannels            = "channels_data"
	KeyPostDraft           = "post_data"
	KeyLegacyPosts         = "user_posts"
	KeyPostLikes           = "post_likes"
	KeyPostComments        = "post_comments"
	channelPermissionsKeys = "channel_permissions_"
	channelPostsKeys       = "user_posts_"
)

// ChannelPermissionsKey returns the key holding a channel's permission set
func ChannelPermissionsKey(channelName string) string {
	return channelPermissionsKeys + channelName
}

// ChannelPostsKey returns the key holding a channel's posts
func ChannelPostsKey(channelID string) string {
	return channelPostsKeys + channelID
}
