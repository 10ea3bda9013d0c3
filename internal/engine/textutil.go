package engine

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/anatolykoptev/go-kit/strutil"
	"golang.org/x/net/html"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// looksLikeHTML is a cheap check for markup in provider content.
func looksLikeHTML(s string) bool {
	return strings.Contains(s, "</") || strings.Contains(s, "/>") ||
		strings.Contains(s, "<p>") || strings.Contains(s, "<br")
}

// CleanHTML strips tags and collapses whitespace. Uses a real tokenizer so
// attribute values and entities don't leak into the text; falls back to a
// regex strip on tokenizer-hostile input.
func CleanHTML(s string) string {
	if !looksLikeHTML(s) {
		return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	}

	var sb strings.Builder
	tz := html.NewTokenizer(strings.NewReader(s))
	skipDepth := 0
	for {
		tt := tz.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.StartTagToken:
			name, _ := tz.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tz.Text())
				sb.WriteByte(' ')
			}
		}
	}

	out := sb.String()
	if out == "" {
		out = htmlTagRe.ReplaceAllString(s, " ")
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(out, " "))
}

// CleanDescription converts an HTML job description to markdown, keeping
// list structure readable. Plain-text input passes through with collapsed
// whitespace. Never fails: conversion errors degrade to a tag strip.
func CleanDescription(s string) string {
	if !looksLikeHTML(s) {
		return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return CleanHTML(s)
	}
	return strings.TrimSpace(md)
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8.
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
