package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mcqbot/internal/problemgen"
)

// TopicsResponse lists the catalog.
type TopicsResponse struct {
	Topics        []string `json:"topics"`
	MathSubtopics []string `json:"math_subtopics"`
	Difficulties  []string `json:"difficulties"`
	Languages     []string `json:"languages"`
}

// ListTopics returns every selectable topic, subtopic, difficulty and
// language.
func ListTopics(c *gin.Context) {
	respondSuccess(c, http.StatusOK, TopicsResponse{
		Topics:        append([]string{problemgen.RandomTopic}, problemgen.Topics...),
		MathSubtopics: problemgen.MathSubtopics,
		Difficulties:  problemgen.Difficulties,
		Languages:     problemgen.Languages,
	})
}
