// Package extract pulls structured claim entities out of free-text queries
// using pattern matching. No language model is involved: extraction is
// deterministic and works offline, which keeps the decision path auditable.
package extract
