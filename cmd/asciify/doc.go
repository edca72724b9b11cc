// Package main hosts the asciify CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into conversion
// jobs, dependency checks, workspace maintenance, and configuration
// scaffolding. It also carries the hidden worker subcommand that child
// render processes run. Configuration resolution and logging setup live in
// the command context so subcommands can focus on user experience.
//
// Keep this package lean: conversion behaviour belongs in internal/job and
// the pipelines it drives; this package only presents it.
package main
