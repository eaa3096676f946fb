package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/internal/cli"
	"github.com/cwbudde/algo-eq/preset"
)

// ParamsCmd lists the parameter layout with the resolved settings.
type ParamsCmd struct {
	Save string `type:"path" help:"Also write the resolved settings as a preset file"`

	EQ SettingsFlags `embed:""`
}

func (c *ParamsCmd) Run() error {
	settings, err := c.EQ.Settings()
	if err != nil {
		return err
	}

	tbl := cli.NewTable("Parameter", "Slug", "Kind", "Range", "Default", "Value")
	for _, p := range eq.Parameters() {
		tbl.Row(p.Name, p.Slug, p.Kind.String(), paramRange(p), p.Format(p.Default), p.Format(settings.Value(p.ID)))
	}
	tbl.Fprint(os.Stdout)

	if c.Save != "" {
		if err := preset.SaveJSON(c.Save, settings); err != nil {
			return err
		}
		fmt.Println()
		cli.PrintKeyValue(os.Stdout, "Saved", c.Save)
	}
	return nil
}

func paramRange(p eq.ParamInfo) string {
	switch p.Kind {
	case eq.KindChoice:
		return fmt.Sprintf("%s .. %s", p.Choices[0], p.Choices[len(p.Choices)-1])
	case eq.KindToggle:
		return "OFF / ON"
	}
	return fmt.Sprintf("%s .. %s", p.Format(p.Min), p.Format(p.Max))
}
