package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/novelforge/tracker/internal/record"
)

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "View and save the master to-do list",
}

var todosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all to-dos",
	Run: func(cmd *cobra.Command, args []string) {
		t, cleanup, err := openTracker()
		if err != nil {
			fail("%v", err)
		}
		defer cleanup()

		todos, err := t.LoadCollection(context.Background(), record.Todos)
		if err != nil {
			fail("%v", err)
		}

		if len(todos) == 0 {
			fmt.Println("No to-dos.")
			return
		}

		for _, r := range todos {
			td := record.TodoView(r)
			mark := "[ ]"
			if td.Done {
				mark = passStyle.Render("[x]")
			}
			fmt.Printf("%s %s\n", mark, td.Task)
		}
	},
}

var todosSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Replace the to-do list from a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		saveCollection(record.Todos, args[0])
	},
}

func init() {
	todosCmd.AddCommand(todosListCmd)
	todosCmd.AddCommand(todosSaveCmd)
	rootCmd.AddCommand(todosCmd)
}
