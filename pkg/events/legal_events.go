package events

import "time"

const (
	TypeTurnCompleted     = "turn.completed"
	TypeDocumentUploaded  = "document.uploaded"
	TypeDocumentIngested  = "document.ingested"
	TypeKnowledgeReseeded = "knowledge.reseeded"
)

// TurnCompleted is emitted once a conversational turn was answered and stored.
func TurnCompleted(conversationID, channel, userText, responseText string) BaseEvent {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"channel":         channel,
			"user_text":       userText,
			"response_text":   responseText,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func DocumentUploaded(documentID, userID, filename string, size int64) BaseEvent {
	return BaseEvent{
		Type: TypeDocumentUploaded,
		Data: map[string]interface{}{
			"document_id": documentID,
			"user_id":     userID,
			"filename":    filename,
			"size":        size,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func DocumentIngested(documentID string, knowledgeIDs []uint) BaseEvent {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"document_id":   documentID,
			"knowledge_ids": knowledgeIDs,
			"chunks":        len(knowledgeIDs),
		},
		OccurredAt: time.Now().UTC(),
	}
}

func KnowledgeReseeded(title string, wrote bool) BaseEvent {
	return BaseEvent{
		Type: TypeKnowledgeReseeded,
		Data: map[string]interface{}{
			"title": title,
			"wrote": wrote,
		},
		OccurredAt: time.Now().UTC(),
	}
}
