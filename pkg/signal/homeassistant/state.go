package homeassistant

import (
	"time"
)

type stateGetResponse struct {
	EntityId    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged time.Time      `json:"last_changed"`
	LastUpdated time.Time      `json:"last_updated"`
}

func (this *stateGetResponse) getAttrSession() stateAttrSession {
	var result stateAttrSession
	if a := this.Attributes; a != nil {
		result.Lesson, _ = a["lesson"].(string)
		result.LessonTitle, _ = a["lesson_title"].(string)
		if v, ok := a["question"].(float64); ok {
			result.Question = int(v)
		}
		if v, ok := a["total"].(float64); ok {
			result.Total = int(v)
		}
	}
	return result
}

type statePostRequest struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func (this *statePostRequest) setAttrSession(v stateAttrSession, progress float64) {
	if this.Attributes == nil {
		this.Attributes = make(map[string]any)
	}
	this.Attributes["lesson"] = v.Lesson
	this.Attributes["lesson_title"] = v.LessonTitle
	this.Attributes["question"] = v.Question
	this.Attributes["total"] = v.Total
	this.Attributes["progress"] = progress
}

// stateAttrSession is the part of the session which is published as
// attributes of the entity.
type stateAttrSession struct {
	Lesson      string
	LessonTitle string
	Question    int
	Total       int
}

func (this stateAttrSession) isEqualTo(o *stateAttrSession) bool {
	return this == *o
}
