// Package agent is an interactive analyst for a folio account. It seeds a
// Gemini chat with the rendered reports and answers free-form questions about
// the portfolio.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"

	"github.com/tdhoang/folio"
	"github.com/tdhoang/folio/renderer"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const systemPrompt = `You are a portfolio analyst. The user's brokerage
account reports follow, in markdown. Answer questions about them factually;
the figures are at cost basis, market prices are not available. Say so when a
question needs data the reports do not carry.`

// Analyst is one chat session bound to one report.
type Analyst struct {
	w     io.Writer
	r     *bufio.Reader
	Model string
	chat  *genai.Chat
}

// New creates an Analyst writing to w and reading user questions from r.
func New(w io.Writer, r io.Reader) *Analyst {
	return &Analyst{w: w, r: bufio.NewReader(r), Model: DefaultModel}
}

// chatContext renders the reports the chat is grounded on.
func chatContext(report *folio.Report, series []folio.NAVEntry) string {
	var sb strings.Builder
	sb.WriteString(renderer.SummaryMarkdown(report))
	sb.WriteString("\n")
	sb.WriteString(renderer.CyclesMarkdown(report))
	sb.WriteString("\n")
	sb.WriteString(renderer.InventoryMarkdown(report))
	sb.WriteString("\n")
	sb.WriteString(renderer.WarningsMarkdown(report))
	if len(series) > 0 {
		sb.WriteString("\n")
		sb.WriteString(renderer.NAVMarkdown(series, 30))
	}
	return sb.String()
}

// Start opens the chat session, grounded on the given report and NAV series.
func (a *Analyst) Start(ctx context.Context, client *genai.Client, report *folio.Report, series []folio.NAVEntry) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
				{Text: chatContext(report, series)},
			},
		},
	}
	chat, err := client.Chats.Create(ctx, a.Model, config, nil)
	if err != nil {
		return fmt.Errorf("starting analyst chat: %w", err)
	}
	a.chat = chat
	return nil
}

// Ask sends one question and returns the answer text.
func (a *Analyst) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from the analyst")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const prompt = "assist> "

// Run is the interactive REPL. Questions given in prompts are asked first,
// then the loop reads from the Analyst's reader until "bye" or EOF.
func (a *Analyst) Run(ctx context.Context, prompts ...string) error {
	if a.chat == nil {
		return fmt.Errorf("analyst not started")
	}
	fmt.Fprintln(a.w, "Ask about the portfolio. Type 'bye' to exit.")
	for {
		fmt.Fprint(a.w, prompt)
		var input string
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
		}
		if strings.TrimSpace(input) == "bye" {
			return nil
		}
		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
