package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-unistore/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ObjectCommands struct {
	Cat     CatCommand     `cmd:"" name:"cat" help:"Print an object to stdout"`
	Put     PutCommand     `cmd:"" name:"put" help:"Store a local file or stdin as an object"`
	Rm      RmCommand      `cmd:"" name:"rm" help:"Delete an object"`
	Stat    StatCommand    `cmd:"" name:"stat" help:"Print object metadata"`
	Cp      CpCommand      `cmd:"" name:"cp" help:"Copy an object within the backend"`
	Presign PresignCommand `cmd:"" name:"presign" help:"Print a signed URL for an object"`
}

type CatCommand struct {
	Path   string `arg:"" name:"path" help:"Object path (e.g. dir/file.txt)"`
	Output string `name:"output" short:"o" help:"Write to file instead of stdout"`
}

type PutCommand struct {
	Path        string `arg:"" name:"path" help:"Object path"`
	File        string `arg:"" name:"file" help:"Local file to store (defaults to stdin)" optional:""`
	ContentType string `name:"content-type" help:"Content type for the object"`
}

type RmCommand struct {
	Path      string `arg:"" name:"path" help:"Object path or prefix"`
	Recursive bool   `name:"recursive" short:"r" help:"Delete all objects under path"`
}

type StatCommand struct {
	Path string `arg:"" name:"path" help:"Object path"`
}

type CpCommand struct {
	From string `arg:"" name:"from" help:"Source object path"`
	To   string `arg:"" name:"to" help:"Destination object path"`
}

type PresignCommand struct {
	Path   string        `arg:"" name:"path" help:"Object path"`
	Expiry time.Duration `name:"expiry" help:"Signed URL lifetime" default:"1h"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *CatCommand) Run(app *Globals) error {
	o, err := app.Operator()
	if err != nil {
		return err
	}
	reader, err := o.Reader(app.Context(), cmd.Path)
	if err != nil {
		return err
	}
	defer reader.Close(app.Context())

	out := os.Stdout
	if cmd.Output != "" {
		out, err = os.Create(cmd.Output)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	for {
		chunk, err := reader.Next(app.Context())
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		if _, err := out.Write(chunk); err != nil {
			return err
		}
	}

	// Return success
	return nil
}

func (cmd *PutCommand) Run(app *Globals) error {
	o, err := app.Operator()
	if err != nil {
		return err
	}

	in := os.Stdin
	if cmd.File != "" {
		in, err = os.Open(cmd.File)
		if err != nil {
			return err
		}
		defer in.Close()
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	return o.WriteWith(app.Context(), cmd.Path, data, schema.OpWrite{ContentType: cmd.ContentType})
}

func (cmd *RmCommand) Run(app *Globals) error {
	o, err := app.Operator()
	if err != nil {
		return err
	}
	if cmd.Recursive {
		return o.RemoveAll(app.Context(), cmd.Path)
	}
	return o.Delete(app.Context(), cmd.Path)
}

func (cmd *StatCommand) Run(app *Globals) error {
	o, err := app.Operator()
	if err != nil {
		return err
	}
	meta, err := o.Stat(app.Context(), cmd.Path)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "path\t%s\n", cmd.Path)
	fmt.Fprintf(w, "mode\t%s\n", meta.Mode)
	if meta.Mode.IsFile() {
		fmt.Fprintf(w, "size\t%d\n", meta.ContentLength)
	}
	if meta.ContentType != "" {
		fmt.Fprintf(w, "content-type\t%s\n", meta.ContentType)
	}
	if meta.ETag != "" {
		fmt.Fprintf(w, "etag\t%s\n", meta.ETag)
	}
	if !meta.LastModified.IsZero() {
		fmt.Fprintf(w, "modified\t%s\n", meta.LastModified.Format(time.RFC3339))
	}
	return w.Flush()
}

func (cmd *CpCommand) Run(app *Globals) error {
	o, err := app.Operator()
	if err != nil {
		return err
	}
	return o.Copy(app.Context(), cmd.From, cmd.To)
}

func (cmd *PresignCommand) Run(app *Globals) error {
	o, err := app.Operator()
	if err != nil {
		return err
	}
	rp, err := o.Presign(app.Context(), cmd.Path, cmd.Expiry)
	if err != nil {
		return err
	}
	fmt.Println(rp.URL)

	// Return success
	return nil
}
