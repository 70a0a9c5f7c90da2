package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/geom"
	"github.com/okislab/placemat/pkg/graph"
)

// =============================================================================
// new - create an empty board file
// =============================================================================

// newCommand creates the "new" command for scaffolding a board file.
func (c *CLI) newCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create an empty board file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta := board.Metadata{}
			if name != "" {
				meta["name"] = name
			}
			b := board.New(meta)
			if err := graph.WriteBoardFile(b, args[0]); err != nil {
				return err
			}
			printSuccess("Created %s", args[0])
			printNextStep("Add a node", fmt.Sprintf("%s add node %s --id n1 --at 0,0", appName, args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "board display name")
	return cmd
}

// =============================================================================
// add - add nodes, placemats, and edges to a board file
// =============================================================================

// addCommand creates the "add" command with element subcommands.
func (c *CLI) addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an element to a board file",
	}

	cmd.AddCommand(c.addNodeCommand())
	cmd.AddCommand(c.addPlacematCommand())
	cmd.AddCommand(c.addEdgeCommand())

	return cmd
}

func (c *CLI) addNodeCommand() *cobra.Command {
	var (
		id     string
		label  string
		at     string
		size   string
		pinned bool
	)

	cmd := &cobra.Command{
		Use:   "node [file]",
		Short: "Add a node to a board file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bounds, err := parseBounds(at, size, 60, 30)
			if err != nil {
				return err
			}
			return c.editBoard(args[0], func(b *board.Board) error {
				return b.AddNode(board.Node{
					ID:      board.ElementID(id),
					Label:   label,
					Bounds:  bounds,
					Movable: !pinned,
				})
			}, fmt.Sprintf("Added node %s", id))
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "node identifier (required)")
	cmd.Flags().StringVar(&label, "label", "", "display label (defaults to id)")
	cmd.Flags().StringVar(&at, "at", "0,0", "position as x,y")
	cmd.Flags().StringVar(&size, "size", "", "size as w,h (default 60,30)")
	cmd.Flags().BoolVar(&pinned, "pinned", false, "pin the node (never captured by a collapse)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func (c *CLI) addPlacematCommand() *cobra.Command {
	var (
		id    string
		title string
		at    string
		size  string
		front bool
	)

	cmd := &cobra.Command{
		Use:   "placemat [file]",
		Short: "Add a placemat group region to a board file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bounds, err := parseBounds(at, size, 200, 150)
			if err != nil {
				return err
			}
			return c.editBoard(args[0], func(b *board.Board) error {
				p := board.Placemat{
					ID:     board.ElementID(id),
					Title:  title,
					Bounds: bounds,
					ZOrder: b.NextZOrder(),
				}
				if err := b.AddPlacemat(p); err != nil {
					return err
				}
				if front {
					return b.BringToFront(p.ID)
				}
				return nil
			}, fmt.Sprintf("Added placemat %s", id))
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "placemat identifier (required)")
	cmd.Flags().StringVar(&title, "title", "", "display title (defaults to id)")
	cmd.Flags().StringVar(&at, "at", "0,0", "position as x,y")
	cmd.Flags().StringVar(&size, "size", "", "size as w,h (default 200,150)")
	cmd.Flags().BoolVar(&front, "front", false, "bring the placemat to the front")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func (c *CLI) addEdgeCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "edge [file]",
		Short: "Add a wire edge between two nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editBoard(args[0], func(b *board.Board) error {
				return b.AddEdge(board.Edge{
					From: board.ElementID(from),
					To:   board.ElementID(to),
				})
			}, fmt.Sprintf("Added edge %s %s %s", from, iconArrow, to))
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source node ID (required)")
	cmd.Flags().StringVar(&to, "to", "", "target node ID (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// =============================================================================
// collapse / expand
// =============================================================================

// collapseCommand creates the "collapse" command.
func (c *CLI) collapseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "collapse [file] [placemat]",
		Short: "Collapse a placemat, hiding its members behind a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editBoard(args[0], func(b *board.Board) error {
				return b.Collapse(board.ElementID(args[1]))
			}, fmt.Sprintf("Collapsed %s", args[1]))
		},
	}
}

// expandCommand creates the "expand" command.
func (c *CLI) expandCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expand [file] [placemat]",
		Short: "Expand a collapsed placemat, restoring its members",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editBoard(args[0], func(b *board.Board) error {
				return b.Expand(board.ElementID(args[1]))
			}, fmt.Sprintf("Expanded %s", args[1]))
		},
	}
}

// =============================================================================
// resolve - print the region nesting tree
// =============================================================================

// resolveCommand creates the "resolve" command that prints the region tree.
func (c *CLI) resolveCommand() *cobra.Command {
	var margin float64

	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve and print the region nesting tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := graph.ReadBoardFile(args[0])
			if err != nil {
				return err
			}

			r := board.NewResolver(b).WithMargin(c.margin(margin))
			tree := r.Tree()

			for _, root := range tree.Roots {
				printTreeNode(b, tree, root, 0)
			}
			if len(tree.Free) > 0 {
				printInfo("Free")
				for _, id := range tree.Free {
					printDetail("%s", id)
				}
			}
			printStats(b.NodeCount(), b.PlacematCount(), b.EdgeCount(), false)
			return nil
		},
	}

	cmd.Flags().Float64Var(&margin, "margin", 0, "region interior margin (default from config or built-in)")
	return cmd
}

// printTreeNode prints one region tree entry and recurses into child regions.
func printTreeNode(b *board.Board, tree *board.RegionTree, id board.ElementID, depth int) {
	indent := strings.Repeat("  ", depth)
	if p, ok := b.Placemat(id); ok {
		state := ""
		if p.Collapsed {
			state = " " + StyleWarning.Render("[collapsed]")
		}
		fmt.Println(indent + StyleTitle.Render(p.DisplayTitle()) + state)
		for _, child := range tree.Children(id) {
			printTreeNode(b, tree, child, depth+1)
		}
		return
	}
	fmt.Println(indent + StyleValue.Render(string(id)))
}

// =============================================================================
// Helpers
// =============================================================================

// editBoard loads a board file, applies fn, and writes the file back.
// The file is not touched when fn fails.
func (c *CLI) editBoard(path string, fn func(*board.Board) error, success string) error {
	b, err := graph.ReadBoardFile(path)
	if err != nil {
		return err
	}
	if err := fn(b); err != nil {
		return err
	}
	if err := graph.WriteBoardFile(b, path); err != nil {
		return err
	}
	printSuccess("%s", success)
	return nil
}

// margin returns the effective resolver margin: the flag when set, else the
// config value, else the built-in default.
func (c *CLI) margin(flag float64) float64 {
	if flag > 0 {
		return flag
	}
	if c.Config.Margin > 0 {
		return c.Config.Margin
	}
	return board.DefaultMargin
}

// parseBounds parses "--at x,y" and "--size w,h" flag values into a rectangle.
// An empty size falls back to the given defaults.
func parseBounds(at, size string, defaultW, defaultH float64) (geom.Rect, error) {
	x, y, err := parsePair(at)
	if err != nil {
		return geom.Rect{}, fmt.Errorf("invalid --at %q: %w", at, err)
	}
	w, h := defaultW, defaultH
	if size != "" {
		w, h, err = parsePair(size)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("invalid --size %q: %w", size, err)
		}
	}
	return geom.Rect{X: x, Y: y, W: w, H: h}, nil
}

// parsePair parses a "a,b" string into two floats.
func parsePair(s string) (float64, float64, error) {
	var a, b float64
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%g,%g", &a, &b); err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
