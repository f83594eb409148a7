package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/hallagren/vaultgate/internal/provider"
	"github.com/hallagren/vaultgate/internal/runner"
	"github.com/hallagren/vaultgate/memory"
	"github.com/hallagren/vaultgate/tools"
)

// agentCmd runs the interactive note-taking agent. The model decides what
// to write; the vault gateway decides whether it is safe and how.
func agentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Chat with an assistant that manages notes in the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("ANTHROPIC_API_KEY") == "" {
				return fmt.Errorf("missing ANTHROPIC_API_KEY; export it before running")
			}

			cfg, v, err := setup()
			if err != nil {
				return err
			}

			persistPath := memory.TranscriptPath(cfg.StateDir)
			persisted, err := memory.LoadConversation(persistPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load persisted conversation: %v\n", err)
			}

			client := provider.NewAnthropicClient()
			r := runner.New(client, tools.Registry(v))
			model := provider.DefaultModel
			if cfg.Model != "" {
				model = anthropic.Model(cfg.Model)
			}

			// Build SDK conversation from persisted messages text
			conv := make([]anthropic.MessageParam, 0, len(persisted))
			for _, m := range persisted {
				if m.Role == "user" {
					conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
				} else {
					conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
				}
			}

			// Graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			sigch := make(chan os.Signal, 1)
			signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigch)
			go func() {
				<-sigch
				fmt.Println("\nExiting...")
				cancel()
			}()

			scanner := bufio.NewScanner(os.Stdin)
			fmt.Printf("Vault: %s (Ctrl-C to quit)\n", v.Root())

			// stdin reader goroutine -> lines into channel
			inputCh := make(chan string)
			go func() {
				for scanner.Scan() {
					inputCh <- scanner.Text()
				}
				close(inputCh)
			}()

		outer:
			for {
				fmt.Print("[94mYou[0m: ")
				var (
					user string
					ok   bool
				)
				select {
				case <-ctx.Done():
					break outer
				case user, ok = <-inputCh:
					if !ok {
						break outer
					}
				}
				conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(user)))

				// Track assistant visible text to persist after the turn
				var lastAssistantText string
				for {
					msg, toolResults, err := r.RunOneStep(ctx, model, conv)
					if err != nil {
						fmt.Fprintf(os.Stderr, "error: %v\n", err)
						break
					}
					conv = append(conv, msg.ToParam())
					for _, b := range msg.Content {
						if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
							if lastAssistantText == "" {
								lastAssistantText = tb.Text
							} else {
								lastAssistantText += "\n" + tb.Text
							}
						}
					}
					if len(toolResults) == 0 {
						break // done with assistant turn
					}
					// Provide tool results as a user message back to the model
					conv = append(conv, anthropic.NewUserMessage(toolResults...))
				}

				// Persist minimal text-only transcript (user + assistant)
				persisted = append(persisted, memory.Message{Role: "user", Text: user})
				if strings.TrimSpace(lastAssistantText) != "" {
					persisted = append(persisted, memory.Message{Role: "assistant", Text: lastAssistantText})
				}
				if err := memory.SaveConversation(persistPath, persisted); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to save conversation: %v\n", err)
				}
			}
			if err := scanner.Err(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
			}
			return nil
		},
	}
}
