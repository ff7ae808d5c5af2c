package message

// Preview derives the denormalized conversation preview text for a message.
// Attachment types collapse to a fixed label; text is truncated to limit runes.
func Preview(msgType Type, content, fileName string, limit int) string {
	switch msgType {
	case TypeImage:
		return "📷 Image"
	case TypeVoice:
		return "🎤 Voice message"
	case TypeFile:
		if fileName == "" {
			fileName = "File"
		}
		return "📎 " + fileName
	default:
		runes := []rune(content)
		if len(runes) > limit {
			return string(runes[:limit])
		}
		return content
	}
}
