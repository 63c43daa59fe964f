package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type DirCommands struct {
	Ls    LsCommand    `cmd:"" name:"ls" help:"List the children of a path"`
	Mkdir MkdirCommand `cmd:"" name:"mkdir" help:"Create a directory"`
}

type LsCommand struct {
	Path      string `arg:"" name:"path" help:"Path prefix to list" optional:"" default:"/"`
	Recursive bool   `name:"recursive" short:"r" help:"List recursively"`
}

type MkdirCommand struct {
	Path string `arg:"" name:"path" help:"Directory path"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *LsCommand) Run(app *Globals) error {
	o, err := app.Operator()
	if err != nil {
		return err
	}

	list := o.List
	if cmd.Recursive {
		list = o.Scan
	}
	entries, err := list(app.Context(), cmd.Path)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, entry := range entries {
		modified := ""
		if !entry.Metadata.LastModified.IsZero() {
			modified = entry.Metadata.LastModified.Format(time.RFC3339)
		}
		if entry.Metadata.IsDir() {
			fmt.Fprintf(w, "%s\t\t%s\n", entry.Path, modified)
		} else {
			fmt.Fprintf(w, "%s\t%d\t%s\n", entry.Path, entry.Metadata.ContentLength, modified)
		}
	}
	return w.Flush()
}

func (cmd *MkdirCommand) Run(app *Globals) error {
	o, err := app.Operator()
	if err != nil {
		return err
	}
	return o.CreateDir(app.Context(), cmd.Path)
}
