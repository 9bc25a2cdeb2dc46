// Package shared holds helpers used across the dashboard packages that do not
// belong to any single layer.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger for asserting on structured logs
//   - sample orders, freight and warehouse CSV fixtures
//   - WriteFile and WriteSampleDataset for t.TempDir based datasets
//
// Example usage:
//
//	func TestLoad(t *testing.T) {
//	    files := testutil.WriteSampleDataset(t)
//	    logger, logs := testutil.NewTestLogger(t)
//	    ...
//	}
package shared
