package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/model"
)

var (
	flagTaskPriority string
	flagTaskDue      string
	flagTaskNotes    string
	flagTaskAll      bool
	flagTaskUndo     bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Wedding planning checklist",
	RunE:  runTasksList,
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks (open tasks unless --all)",
	RunE:  runTasksList,
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <task>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTasksAdd,
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task done (or not done with --undo)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDone,
}

func init() {
	tasksCmd.PersistentFlags().BoolVarP(&flagTaskAll, "all", "a", false, "Include completed tasks")
	tasksAddCmd.Flags().StringVar(&flagTaskPriority, "priority", string(model.PriorityMedium), "Priority: high, medium or low")
	tasksAddCmd.Flags().StringVar(&flagTaskDue, "due", "", "Due date (YYYY-MM-DD)")
	tasksAddCmd.Flags().StringVar(&flagTaskNotes, "notes", "", "Notes")
	tasksDoneCmd.Flags().BoolVar(&flagTaskUndo, "undo", false, "Mark the task not done")

	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksDoneCmd)
	rootCmd.AddCommand(tasksCmd)
}

func runTasksList(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		d := s.dashboard()

		fmt.Println()
		fmt.Printf("  %s %s\n\n", cli.Header("Tasks"), cli.Muted(fmt.Sprintf("(%d/%d done)", d.TasksDone, len(d.Tasks))))

		rows := make([][]string, 0, len(d.Tasks))
		for _, t := range d.Tasks {
			if t.Completed && !flagTaskAll {
				continue
			}
			due := ""
			if t.DueDate != nil {
				due = t.DueDate.String()
			}
			rows = append(rows, []string{
				string(t.ID),
				t.Task,
				string(t.Priority),
				due,
				cli.RenderPassFail(t.Completed),
			})
		}
		if len(rows) == 0 {
			fmt.Println("  Nothing left to do.")
			return nil
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"ID", "Task", "Priority", "Due", "Done"},
			Rows:    rows,
		}))
		fmt.Println()
		return nil
	})
}

func runTasksAdd(_ *cobra.Command, args []string) error {
	task := model.WeddingTask{
		ID:       model.TaskID(uuid.New().String()),
		Task:     strings.Join(args, " "),
		Priority: model.Priority(strings.ToLower(flagTaskPriority)),
		Notes:    flagTaskNotes,
	}
	switch task.Priority {
	case model.PriorityHigh, model.PriorityMedium, model.PriorityLow:
	default:
		return fmt.Errorf("unknown priority %q", flagTaskPriority)
	}
	if flagTaskDue != "" {
		due, err := model.ParseDate(flagTaskDue)
		if err != nil {
			return err
		}
		task.DueDate = &due
	}

	return withSession(func(s *session) error {
		err := s.store.Mutate(func(doc *model.Document) error {
			doc.WeddingTasks = append(doc.WeddingTasks, task)
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("  Added task %s\n", task.ID)
		return nil
	})
}

func runTasksDone(_ *cobra.Command, args []string) error {
	id := model.TaskID(args[0])
	return withSession(func(s *session) error {
		found, err := s.store.SetTaskCompleted(id, !flagTaskUndo)
		if err != nil {
			return err
		}
		if !found {
			return errors.New("no task with id " + args[0])
		}
		if flagTaskUndo {
			fmt.Printf("  Reopened task %s\n", id)
		} else {
			fmt.Printf("  Completed task %s\n", id)
		}
		return nil
	})
}
