package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shopping-agent/internal/catalog"
	apihttp "shopping-agent/internal/common/http"
	"shopping-agent/internal/common/text"
	"shopping-agent/internal/models"
	"shopping-agent/internal/pipeline"
	"shopping-agent/internal/session"
)

var (
	chatServer  string
	chatSession string
	chatSeed    int64
	chatMessage string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the shopping agent",
	Long: `Chat with the shopping agent line by line. Type "exit" to quit.

Without --server the pipeline runs in-process against the configured
catalog with an in-memory session store.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatServer, "server", "", "base URL of a running shopping API")
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session id to continue")
	chatCmd.Flags().Int64Var(&chatSeed, "seed", 0, "fix template selection (in-process only, 0 = random)")
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "send one message and exit")
	rootCmd.AddCommand(chatCmd)
}

// chatter is satisfied by the in-process pipeline and the HTTP client.
type chatter interface {
	Chat(ctx context.Context, sessionID, message string) (*models.ChatTurnResult, error)
}

type localChatter struct {
	orchestrator *pipeline.Orchestrator
}

func (l localChatter) Chat(ctx context.Context, sessionID, message string) (*models.ChatTurnResult, error) {
	return l.orchestrator.HandleMessage(ctx, sessionID, message)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var c chatter
	if chatServer != "" {
		c = apihttp.NewClient(chatServer, 30*time.Second)
	} else {
		products, closeCatalog, err := catalog.Open(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeCatalog()

		stages, err := pipeline.NewStages(log)
		if err != nil {
			return err
		}
		sessions := session.NewManager(session.NewMemoryStore(cfg.Session.TTL()), session.OptionsFromConfig(cfg.Session), log)

		var opts []pipeline.Option
		if chatSeed != 0 {
			opts = append(opts, pipeline.WithSeed(chatSeed))
		}
		c = localChatter{orchestrator: pipeline.New(stages, products, sessions, log, opts...)}
	}

	in := cmd.InOrStdin()
	if chatMessage != "" {
		in = strings.NewReader(chatMessage + "\n")
	}
	return repl(ctx, in, cmd.OutOrStdout(), c, chatSession)
}

// repl sends each non-empty input line as one turn and prints the reply.
// Rejected messages are reported and the loop continues.
func repl(ctx context.Context, in io.Reader, out io.Writer, c chatter, sessionID string) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		res, err := c.Chat(ctx, sessionID, line)
		if err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}
		sessionID = res.SessionID
		printTurn(out, res)
	}
}

func printTurn(out io.Writer, res *models.ChatTurnResult) {
	fmt.Fprintln(out, res.Message)
	for i, p := range res.Products {
		fmt.Fprintf(out, "  %d. %s (%s) %s\n", i+1, p.Name, p.ID, text.FormatPrice(p.Price))
	}
	if len(res.Suggestions) > 0 {
		fmt.Fprintf(out, "  [%s]\n", strings.Join(res.Suggestions, " | "))
	}
	fmt.Fprintf(out, "  session=%s intent=%s\n", res.SessionID, res.Intent.Type)
}
