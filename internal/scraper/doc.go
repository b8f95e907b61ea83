// Package scraper fetches daily menu pages from the METU cafeteria site and
// turns them into meal results.
//
// Each date is requested through the site's date filter
// (<base>?date_filter[value][date]=DD/MM/YYYY). Transient failures are retried
// with exponential backoff. FetchAndFormatMenu folds every failure (network,
// unknown layout, no meals) into a nil result; FetchMenu returns the reason.
package scraper
