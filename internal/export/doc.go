// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders fetched threads to shareable files.
//
// Two formats are supported: Markdown, with replies nested as blockquotes
// one level per depth, and JSON, with replies nested inside their parent
// note. Exporters implement the Exporter interface; ExportToFile handles
// filenames, directory creation and optionally opening the result.
package export
