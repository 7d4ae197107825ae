// Package document implements the treeline document model and the
// layout merge algorithm.
//
// # Overview
//
// A [Document] is one HTML resource: a layout, a page, or both. Loading a
// document parses it into an [html.Node] tree, looks at the first child for
// a root directive and collects its content fragments:
//
//	<!--treeline:extends:base-->
//	<template data-treeline-contents="main">
//	    <h1>Hello</h1>
//	</template>
//
// Layouts mark where content goes with include gap comments:
//
//	<main><!--treeline:includes:main--></main>
//
// # Parsing
//
// Files containing a doctype are parsed as whole documents. Everything else
// is parsed as a fragment in a template context, so the parser never injects
// html, head or body wrappers into content-only files.
//
// # Rendering
//
// [Document.Render] walks from a page up the extends chain to its root
// layout, pops the nearest descendant off the render stack as the content
// source, discovers the root layout's include gaps and splices the matching
// fragment contents in right after each gap comment. The root layout's tree
// is cloned for every render, so a layout shared by many pages is never
// mutated and pages may render concurrently.
//
// Only the nearest descendant of the root layout supplies fragments. In a
// chain page → mid → root, the root's gaps are filled from mid's fragments
// and the page's own fragments are not consulted.
package document
