package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Expert is a chat session with a model specialised by its system prompt.
// An expert with a Library answers the function calls of its model.
type Expert struct {
	Name        string
	Description string
	Model       string
	Config      *genai.GenerateContentConfig
	Library     Library
	Log         zerolog.Logger

	chat *genai.Chat
}

// Start creates the chat session of the expert.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.Model, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// maxCalls bounds the function calls resolved for a single question.
const maxCalls = 8

// Ask sends parts to the expert, resolving its function calls until it answers.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	if e.chat == nil {
		return nil, fmt.Errorf("expert %s is not started", e.Name)
	}
	for range maxCalls {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, fmt.Errorf("no response from expert %s", e.Name)
		}
		content := resp.Candidates[0].Content
		call := content.Parts[0].FunctionCall
		if call == nil {
			return content, nil
		}
		if e.Library == nil {
			return nil, fmt.Errorf("expert %s cannot answer function calls", e.Name)
		}
		e.Log.Debug().Str("expert", e.Name).Str("function", call.Name).Msg("function call")
		parts = []*genai.Part{{FunctionResponse: e.Library(ctx, call)}}
	}
	return nil, fmt.Errorf("expert %s made more than %d function calls", e.Name, maxCalls)
}

var questionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"question": {Type: genai.TypeString, Description: "The question, in plain words."},
	},
	Required: []string{"question"},
}

// Declaration exposes the expert as a function other experts can call.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters:  questionSchema,
		Response:    &genai.Schema{Type: genai.TypeString, Description: "The expert's answer."},
	}
}

// Call asks this expert the question of a function call.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, ok := args["question"].(string)
	if !ok {
		return failure(id, e.Name, fmt.Errorf("invalid question type %T, expected string", args["question"]))
	}
	response, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return failure(id, e.Name, fmt.Errorf("something went wrong while calling the expert: %w", err))
	}
	answer := text(response)
	e.Log.Info().Str("expert", e.Name).Str("question", question).Str("answer", answer).Msg("expert answered")
	return success(id, e.Name, answer)
}
