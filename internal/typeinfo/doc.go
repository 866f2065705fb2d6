// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package typeinfo is the metadata catalog of ormlet. It resolves, once per
// entity type, how the fields of a tagged struct map onto the columns of its
// backing table, and provides the value helpers used by change tracking and
// row mapping.
package typeinfo
