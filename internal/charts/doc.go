// Package charts turns analytics results into declarative chart requests and
// the page text of the dashboard. Nothing here draws; the browser renders the
// requests with Plotly.
package charts
