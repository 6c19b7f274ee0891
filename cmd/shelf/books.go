package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/forms"
)

func newBooksCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List, inspect and manage books",
	}
	cmd.AddCommand(
		newBooksListCmd(flags),
		newBooksRecentCmd(flags),
		newBooksShowCmd(flags),
		newBooksAddCmd(flags),
		newBooksSetAvailableCmd(flags),
		newBooksDeleteCmd(flags),
	)
	return cmd
}

func newBooksListCmd(flags *globalFlags) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered by category",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&category, "category", "c", catalog.AllBooks, "category filter")
	cmd.RunE = flags.withEnv(func(cmd *cobra.Command, env *app.Env, _ []string) error {
		if !catalog.Contains(catalog.Categories, category) {
			return fmt.Errorf("unknown category %q (one of: %s)", category, strings.Join(catalog.Categories, ", "))
		}
		books, err := env.Client.ListBooks(cmd.Context(), category)
		if err != nil {
			return fmt.Errorf("fetch books: %w", err)
		}
		writeBooks(cmd.OutOrStdout(), books, env.Favorites.IsFavorite)
		return nil
	})
	return cmd
}

func newBooksRecentCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently added books",
		Args:  cobra.NoArgs,
		RunE: flags.withEnv(func(cmd *cobra.Command, env *app.Env, _ []string) error {
			books, err := env.Client.RecentBooks(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch recent books: %w", err)
			}
			writeBooks(cmd.OutOrStdout(), books, env.Favorites.IsFavorite)
			return nil
		}),
	}
}

func newBooksShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: flags.withEnv(func(cmd *cobra.Command, env *app.Env, args []string) error {
			book, err := env.Client.GetBook(cmd.Context(), args[0])
			if errors.Is(err, catalog.ErrNotFound) {
				return fmt.Errorf("book %s not found", args[0])
			}
			if err != nil {
				return err
			}
			writeBook(cmd.OutOrStdout(), book, env.Favorites.IsFavorite(book.ID))
			return nil
		}),
	}
}

func newBooksAddCmd(flags *globalFlags) *cobra.Command {
	values := forms.NewBook()
	var unavailable bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book (admin)",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&values.Title, "title", "", "title")
	cmd.Flags().StringVar(&values.Author, "author", "", "author")
	cmd.Flags().StringVar(&values.CoverURL, "url", "", "cover image URL")
	cmd.Flags().StringVar(&values.Category, "category", "", "one of: "+strings.Join(catalog.BookCategories, ", "))
	cmd.Flags().StringVar(&values.Language, "language", "", "one of: "+strings.Join(catalog.Languages, ", "))
	cmd.Flags().BoolVar(&unavailable, "unavailable", false, "mark the book as not available")
	cmd.RunE = flags.withEnv(func(cmd *cobra.Command, env *app.Env, _ []string) error {
		if err := requireAdmin(env); err != nil {
			return err
		}
		values.Available = !unavailable
		if err := forms.ValidateBook(values); err != nil {
			return err
		}
		if err := env.Client.CreateBook(cmd.Context(), env.Session.Token(), values.Input()); err != nil {
			return errors.New(catalog.Message(err, "Failed to add book"))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Book added successfully!")
		return nil
	})
	return cmd
}

func newBooksSetAvailableCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set-available <id> <true|false>",
		Short: "Change a book's availability (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: flags.withEnv(func(cmd *cobra.Command, env *app.Env, args []string) error {
			if err := requireAdmin(env); err != nil {
				return err
			}
			available, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("availability must be true or false, got %q", args[1])
			}
			patch := catalog.AvailabilityPatch(available)
			if err := env.Client.UpdateBook(cmd.Context(), env.Session.Token(), args[0], patch); err != nil {
				return errors.New(catalog.Message(err, "Failed to update availability"))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book marked as %s\n", availabilityText(available))
			return nil
		}),
	}
}

func newBooksDeleteCmd(flags *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book (admin)",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.RunE = flags.withEnv(func(cmd *cobra.Command, env *app.Env, args []string) error {
		if err := requireAdmin(env); err != nil {
			return err
		}
		if !yes {
			fmt.Fprint(cmd.ErrOrStderr(), "Are you sure you want to delete this book? (y/n) ")
			line, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			answer := strings.TrimSpace(line)
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
		}
		if err := env.Client.DeleteBook(cmd.Context(), env.Session.Token(), args[0]); err != nil {
			return errors.New(catalog.Message(err, "Failed to delete book"))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Book deleted successfully")
		return nil
	})
	return cmd
}

func availabilityText(available bool) string {
	if available {
		return "Available"
	}
	return "Unavailable"
}

// writeBooks prints books as a table, or "No books found".
func writeBooks(w io.Writer, books []catalog.Book, favorite func(string) bool) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "ID", "TITLE", "AUTHOR", "CATEGORY", "LANGUAGE", "STATUS")
	for _, b := range books {
		mark := ""
		if favorite(b.ID) {
			mark = "★"
		}
		t.Row(mark, b.ID, b.Title, b.Author, b.Category, b.Language, availabilityText(b.Available))
	}
	fmt.Fprintln(w, t.Render())
}

func writeBook(w io.Writer, b catalog.Book, favorite bool) {
	rows := [][2]string{
		{"ID", b.ID},
		{"Title", b.Title},
		{"Author", b.Author},
		{"Category", b.Category},
		{"Language", b.Language},
		{"Status", availabilityText(b.Available)},
		{"Cover", b.CoverURL},
		{"Favorite", strconv.FormatBool(favorite)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-9s %s\n", r[0]+":", r[1])
	}
}
