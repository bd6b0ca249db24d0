package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"html"
	"strings"
)

func getHtmlReportBegin() string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html>
<html lang="en">
`)
	sb.WriteString("<head>\n")
	sb.WriteString(`    <meta charset="UTF-8">
    <title>irqtune</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
`)
	// link the style sheets
	sb.WriteString(`
    <link rel="stylesheet" href="https://unpkg.com/normalize.css@8.0.1/normalize.css" integrity="sha384-M86HUGbBFILBBZ9ykMAbT3nVb0+2C7yZlF8X2CiKNpDOQjKroMJqIeGZ/Le8N2Qp" crossorigin="anonymous" referrerpolicy="no-referrer" />
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/purecss@3.0.0/build/pure-min.css" integrity="sha384-X38yfunGUhNzHpBaEBsWLO+A0HDYOQi8ufWDkZ0k9e0eXz/tH3II7uKZ9msv++Ls" crossorigin="anonymous" referrerpolicy="no-referrer" />
`)
	// add content class style
	sb.WriteString(`
    <style>
        .content {
            padding: 0 2em;
            line-height: 1.6em;
        }
        .content h2 {
            font-weight: 300;
            color: #888;
        }
    </style>
`)
	sb.WriteString("</head>\n")
	return sb.String()
}

func getHtmlReportMenu(allTableValues []TableValues) string {
	var sb strings.Builder
	// if none of the tables have menu labels, don't add the menu
	hasMenuLabels := false
	for _, tableValues := range allTableValues {
		if tableValues.MenuLabel != "" {
			hasMenuLabels = true
			break
		}
	}
	if hasMenuLabels {
		sb.WriteString("<nav>\n")
		seen := make(map[string]bool)
		for _, tableValues := range allTableValues {
			if tableValues.MenuLabel != "" && !seen[tableValues.MenuLabel] {
				seen[tableValues.MenuLabel] = true
				sb.WriteString(fmt.Sprintf("<a href=\"#%s\">%s</a>\n", html.EscapeString(tableValues.Name), html.EscapeString(tableValues.MenuLabel)))
			}
		}
		sb.WriteString("</nav>\n")
	}
	return sb.String()
}

func createHtmlReport(allTableValues []TableValues, targetName string) (out []byte, err error) {
	var sb strings.Builder
	sb.WriteString(getHtmlReportBegin())

	// body starts here
	sb.WriteString("<body>\n")
	sb.WriteString("<main class=\"content\">\n")
	sb.WriteString(getHtmlReportMenu(allTableValues))
	sb.WriteString(fmt.Sprintf("<h1>IRQ Affinity Report - %s</h1>\n", html.EscapeString(targetName)))
	for _, tableValues := range allTableValues {
		// print the table name
		sb.WriteString(fmt.Sprintf("<h2 id=\"%[1]s\">%[1]s</h2>\n", html.EscapeString(tableValues.Name)))
		// if there's no data in the table, print a message and continue
		if len(tableValues.Fields) == 0 || len(tableValues.Fields[0].Values) == 0 {
			msg := noDataFound
			if tableValues.NoDataFound != "" {
				msg = tableValues.NoDataFound
			}
			sb.WriteString("<p>" + html.EscapeString(msg) + "</p>\n")
			continue
		}
		sb.WriteString(DefaultHTMLTableRendererFunc(tableValues))
	}
	sb.WriteString("</main>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")
	out = []byte(sb.String())
	return
}

func renderHTMLTable(tableHeaders []string, tableValues [][]string, class string, valuesStyle [][]string) string {
	var sb strings.Builder
	sb.WriteString(`<table class="` + class + `">`)
	if len(tableHeaders) > 0 {
		sb.WriteString(`<thead>`)
		sb.WriteString(`<tr>`)
		for _, label := range tableHeaders {
			sb.WriteString(`<th>` + html.EscapeString(label) + `</th>`)
		}
		sb.WriteString(`</tr>`)
		sb.WriteString(`</thead>`)
	}
	sb.WriteString(`<tbody>`)
	for rowIdx, rowValues := range tableValues {
		sb.WriteString(`<tr>`)
		for colIdx, value := range rowValues {
			var style string
			if len(valuesStyle) > rowIdx && len(valuesStyle[rowIdx]) > colIdx {
				style = ` style="` + valuesStyle[rowIdx][colIdx] + `"`
			}
			sb.WriteString(`<td` + style + `>` + html.EscapeString(value) + `</td>`)
		}
		sb.WriteString(`</tr>`)
	}
	sb.WriteString(`</tbody>`)
	sb.WriteString(`</table>`)
	return sb.String()
}

func DefaultHTMLTableRendererFunc(tableValues TableValues) string {
	if tableValues.HasRows { // print the field names as column headings across the top of the table
		headers := []string{}
		for _, field := range tableValues.Fields {
			headers = append(headers, field.Name)
		}
		values := [][]string{}
		for row := 0; row < len(tableValues.Fields[0].Values); row++ {
			rowValues := []string{}
			for _, field := range tableValues.Fields {
				rowValues = append(rowValues, field.Values[row])
			}
			values = append(values, rowValues)
		}
		return renderHTMLTable(headers, values, "pure-table pure-table-striped", [][]string{})
	}
	// print the field name followed by its value
	values := [][]string{}
	var tableValueStyles [][]string
	for _, field := range tableValues.Fields {
		values = append(values, []string{field.Name, field.Values[0]})
		tableValueStyles = append(tableValueStyles, []string{"font-weight:bold"})
	}
	return renderHTMLTable([]string{}, values, "pure-table pure-table-striped", tableValueStyles)
}
