package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		stmt Statement
		want string
	}{
		{
			name: "default import",
			stmt: &ImportDecl{
				Source:     "antd/es/my-button",
				Specifiers: []ImportSpecifier{&DefaultSpecifier{Local: "MyButton"}},
			},
			want: `import MyButton from "antd/es/my-button";`,
		},
		{
			name: "side effect import",
			stmt: &ImportDecl{Source: "antd/es/my-button/style"},
			want: `import "antd/es/my-button/style";`,
		},
		{
			name: "namespace import",
			stmt: &ImportDecl{
				Source:     "lodash",
				Specifiers: []ImportSpecifier{&NamespaceSpecifier{Local: "_"}},
			},
			want: `import * as _ from "lodash";`,
		},
		{
			name: "named with alias",
			stmt: &ImportDecl{
				Source: "antd/es/my-button",
				Specifiers: []ImportSpecifier{&NamedSpecifier{
					Local:    "NewButton",
					Imported: &ExportName{Value: "MyButton"},
				}},
			},
			want: `import { MyButton as NewButton } from "antd/es/my-button";`,
		},
		{
			name: "string export name",
			stmt: &ImportDecl{
				Source: "icons",
				Specifiers: []ImportSpecifier{&NamedSpecifier{
					Local:    "ArrowUp",
					Imported: &ExportName{Value: "arrow-up", IsString: true},
				}},
			},
			want: `import { "arrow-up" as ArrowUp } from "icons";`,
		},
		{
			name: "default plus named",
			stmt: &ImportDecl{
				Source: "react",
				Specifiers: []ImportSpecifier{
					&DefaultSpecifier{Local: "React"},
					&NamedSpecifier{Local: "useState"},
					&NamedSpecifier{Local: "useEffect"},
				},
			},
			want: `import React, { useState, useEffect } from "react";`,
		},
		{
			name: "type only declaration drops specifier marker",
			stmt: &ImportDecl{
				Source:     "antd/es/button",
				TypeOnly:   true,
				Specifiers: []ImportSpecifier{&NamedSpecifier{Local: "ButtonProps", TypeOnly: true}},
			},
			want: `import type { ButtonProps } from "antd/es/button";`,
		},
		{
			name: "inline type specifier",
			stmt: &ImportDecl{
				Source:     "antd",
				Specifiers: []ImportSpecifier{&NamedSpecifier{Local: "ButtonProps", TypeOnly: true}},
			},
			want: `import { type ButtonProps } from "antd";`,
		},
		{
			name: "attributes clause",
			stmt: &ImportDecl{
				Source:     "./data.json",
				Specifiers: []ImportSpecifier{&DefaultSpecifier{Local: "data"}},
				With:       `with { type: "json" }`,
			},
			want: `import data from "./data.json" with { type: "json" };`,
		},
		{
			name: "raw statement verbatim",
			stmt: &RawStatement{Kind: "expression_statement", Text: "console.log( 1 )"},
			want: "console.log( 1 )",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.stmt))
		})
	}
}

func TestFormatAll(t *testing.T) {
	stmts := []Statement{
		&ImportDecl{Source: "a", Specifiers: []ImportSpecifier{&DefaultSpecifier{Local: "A"}}},
		&ImportDecl{Source: "a/style"},
	}
	assert.Equal(t, `import A from "a";import "a/style";`, FormatAll(stmts, ""))
	assert.Equal(t, "", FormatAll(nil, "\n"))
}

func TestNamedSpecifier_ExportedName(t *testing.T) {
	assert.Equal(t, "MyButton", (&NamedSpecifier{Local: "MyButton"}).ExportedName())
	assert.Equal(t, "MyButton", (&NamedSpecifier{
		Local:    "NewButton",
		Imported: &ExportName{Value: "MyButton"},
	}).ExportedName())
}

func TestModule_Imports(t *testing.T) {
	a := &ImportDecl{Source: "a"}
	b := &ImportDecl{Source: "b"}
	m := &Module{Statements: []Statement{
		a,
		&RawStatement{Kind: "comment", Text: "// x"},
		b,
	}}
	assert.Equal(t, []*ImportDecl{a, b}, m.Imports())
}
