package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/readmind/internal/storage"
)

// --- log ---

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a reading session",
	Long: `Record a reading session. Logging twice for the same date replaces
the earlier entry.

Examples:
  readmind log --minutes 30 --pages 25 --book "Dune"
  readmind log --minutes 45 --pages 40 --book "Dune" --date 2026-08-28 --notes "ch. 5-7"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, _ := cmd.Flags().GetInt("minutes")
		pages, _ := cmd.Flags().GetInt("pages")
		book, _ := cmd.Flags().GetString("book")
		date, _ := cmd.Flags().GetString("date")
		notes, _ := cmd.Flags().GetString("notes")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"minutes": minutes,
			"pages":   pages,
			"book":    book,
			"notes":   notes,
		}
		if date != "" {
			req["date"] = date
		}

		resp, err := client.post(cmd.Context(), "/sessions", req)
		if err != nil {
			return err
		}

		var sess storage.ReadingSession
		if err := decodeJSON(resp, &sess); err != nil {
			return err
		}

		printSuccess("Logged %d minutes of %q on %s", sess.Minutes, sess.Book, sess.Date)
		return nil
	},
}

func init() {
	logCmd.Flags().Int("minutes", 0, "minutes read")
	logCmd.Flags().Int("pages", 0, "pages read")
	logCmd.Flags().String("book", "", "book title")
	logCmd.Flags().String("date", "", "session date YYYY-MM-DD (defaults to today)")
	logCmd.Flags().String("notes", "", "optional notes")
}

// --- sessions ---

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List logged reading sessions (newest first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/sessions")
		if err != nil {
			return err
		}

		var sessions []storage.ReadingSession
		if err := decodeJSON(resp, &sessions); err != nil {
			return err
		}

		if len(sessions) == 0 {
			fmt.Println("no sessions logged yet")
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%s  %3d min  %3d pages  %s\n", s.Date, s.Minutes, s.Pages, s.Book)
		}
		return nil
	},
}

// --- streak ---

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current consecutive-days reading streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/streak")
		if err != nil {
			return err
		}

		var result struct {
			Streak int    `json:"streak"`
			AsOf   string `json:"as_of"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Printf("%d day(s) as of %s\n", result.Streak, result.AsOf)
		return nil
	},
}

// --- goals ---

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage reading goals",
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reading goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		activeOnly, _ := cmd.Flags().GetBool("active")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := "/goals"
		if activeOnly {
			path += "?active=true"
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var list []storage.Goal
		if err := decodeJSON(resp, &list); err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Println("no goals yet")
			return nil
		}
		for _, g := range list {
			state := "active"
			if !g.IsActive {
				state = "inactive"
			}
			fmt.Printf("%s  [%s] %s — %d/%d %s by %s (%s)\n",
				g.ID, g.Category, g.Title, g.CurrentValue, g.TargetValue, g.Unit, g.Deadline, state)
		}
		return nil
	},
}

var goalsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a reading goal",
	Long: `Create a reading goal.

Example:
  readmind goals add --title "Read 24 books" --target 24 --unit books --deadline 2026-12-31 --category yearly`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		target, _ := cmd.Flags().GetInt("target")
		unit, _ := cmd.Flags().GetString("unit")
		deadline, _ := cmd.Flags().GetString("deadline")
		category, _ := cmd.Flags().GetString("category")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/goals", map[string]any{
			"title":        title,
			"description":  description,
			"target_value": target,
			"unit":         unit,
			"deadline":     deadline,
			"category":     category,
		})
		if err != nil {
			return err
		}

		var g storage.Goal
		if err := decodeJSON(resp, &g); err != nil {
			return err
		}

		printSuccess("Created goal %s: %s", g.ID, g.Title)
		return nil
	},
}

var goalsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a reading goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/goals/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted goal %s", args[0])
		return nil
	},
}

func init() {
	goalsListCmd.Flags().Bool("active", false, "only show active goals")

	goalsAddCmd.Flags().String("title", "", "goal title")
	goalsAddCmd.Flags().String("description", "", "goal description")
	goalsAddCmd.Flags().Int("target", 0, "target value")
	goalsAddCmd.Flags().String("unit", "", "one of: books, pages, minutes, hours")
	goalsAddCmd.Flags().String("deadline", "", "deadline YYYY-MM-DD")
	goalsAddCmd.Flags().String("category", "", "one of: personal, daily, yearly, genre, skill")

	goalsCmd.AddCommand(goalsListCmd)
	goalsCmd.AddCommand(goalsAddCmd)
	goalsCmd.AddCommand(goalsDeleteCmd)
}

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the reading assistant a question",
	Long: `Ask the reading assistant a question. Pass --conversation to continue
an existing conversation.

Example:
  readmind ask "What is the main theme of chapter 3?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conversationID, _ := cmd.Flags().GetString("conversation")
		question := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]string{"question": question}
		if conversationID != "" {
			req["conversation_id"] = conversationID
		}
		resp, err := client.post(cmd.Context(), "/ask", req)
		if err != nil {
			return err
		}

		var conv storage.Conversation
		if err := decodeJSON(resp, &conv); err != nil {
			return err
		}

		if len(conv.Messages) > 0 {
			fmt.Println(conv.Messages[len(conv.Messages)-1].Content)
		}
		fmt.Fprintf(os.Stderr, "\nconversation: %s (%s)\n", conv.ID, conv.Category)
		return nil
	},
}

func init() {
	askCmd.Flags().String("conversation", "", "conversation id to continue")
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a document into the library",
	Long: `Import a document into the library.

Examples:
  readmind import --text "pasted chapter text" --title "Chapter 1"
  readmind import --file ./book.pdf
  readmind import --url https://example.com/article`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		rawURL, _ := cmd.Flags().GetString("url")
		title, _ := cmd.Flags().GetString("title")
		author, _ := cmd.Flags().GetString("author")

		if text == "" && file == "" && rawURL == "" {
			return fmt.Errorf("one of --text, --file, or --url is required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"title":  title,
			"author": author,
		}
		switch {
		case text != "":
			req["type"] = "text"
			req["content"] = text
		case file != "":
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			req["type"] = "file"
			req["name"] = filepath.Base(file)
			req["content"] = base64.StdEncoding.EncodeToString(data)
		case rawURL != "":
			if _, err := url.Parse(rawURL); err != nil {
				return fmt.Errorf("invalid url: %w", err)
			}
			req["type"] = "url"
			req["url"] = rawURL
		}

		resp, err := client.post(cmd.Context(), "/documents", req)
		if err != nil {
			return err
		}

		var result map[string]any
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if jobID, ok := result["job_id"].(string); ok {
			printSuccess("Queued URL import (job %s)", jobID)
			fmt.Printf("check later with: readmind jobs %s\n", jobID)
			return nil
		}

		b, _ := json.Marshal(result)
		var doc storage.Document
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		printSuccess("Imported %q (%d words, ~%d min read)", doc.Title, doc.WordCount, doc.ReadingTime)
		return nil
	},
}

// --- jobs ---

var jobsCmd = &cobra.Command{
	Use:   "jobs <id>",
	Short: "Show the status of a background import job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/jobs/"+args[0])
		if err != nil {
			return err
		}

		var job struct {
			ID        string `json:"id"`
			Status    string `json:"status"`
			Attempts  int    `json:"attempts"`
			LastError string `json:"last_error"`
		}
		if err := decodeJSON(resp, &job); err != nil {
			return err
		}

		printStatus("Job", "%s", job.ID)
		printStatus("Status", "%s", job.Status)
		printStatus("Attempts", "%d", job.Attempts)
		if job.LastError != "" {
			printStatus("Last error", "%s", job.LastError)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("text", "", "text content to import")
	importCmd.Flags().String("file", "", "file path to import (.txt, .md, or .pdf)")
	importCmd.Flags().String("url", "", "URL to fetch in the background")
	importCmd.Flags().String("title", "", "document title")
	importCmd.Flags().String("author", "", "document author")
}
