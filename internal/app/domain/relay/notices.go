package relay

const (
	NoticeWelcome            = "Welcome! Send any message and I'll forward it to the admins."
	NoticeUnsupportedContent = "⚠️ Unsupported content type."
	NoticeBlocked            = "🚫 You have been blocked and cannot send messages."
	NoticeRateLimited        = "⚠️ You are sending messages too quickly. Please slow down."
	NoticeDelivered          = "✅ Delivered to the group. Await their reply here."
	NoticeSendFailed         = "❌ Failed to send your message."

	NoticeReplyToBanner    = "⚠️ Please reply directly to the bot's info message."
	NoticeUserIsBlocked    = "ℹ️ That user is currently blocked."
	NoticeUnsupportedReply = "⚠️ Unsupported reply type."
	NoticeReplyFromGroup   = "📩 Reply from the group chat:"
	NoticeReplyDelivered   = "✅ Reply delivered."
	NoticeReplyFailed      = "❌ Could not deliver the reply."

	NoticeUserBlocked      = "🚫 User %d has been blocked."
	NoticeUserUnblocked    = "✅ User %d has been unblocked."
	NoticeBlockUnconfirmed = "User blocked, but the confirmation could not be posted."
	NoticePermissionDenied = "Permission denied."
	NoticeCommandDenied    = "🚫 You don't have permission to use this command."
	NoticeNotInBlocklist   = "User not found in blocklist."
	NoticeNoBlocked        = "✅ No users are currently blocked."
	NoticeUnblockUsage     = "Usage: /unblock <user_id>"
	NoticeBadUserID        = "User ID must be a number."
)
