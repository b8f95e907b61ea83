package scraper

import (
	"github.com/yemekhane/menucal/internal/extract"
	"github.com/yemekhane/menucal/internal/logger"
	"github.com/yemekhane/menucal/internal/meal"
)

// logObserver reports extraction progress as debug logs and metrics.
type logObserver struct {
	log     *logger.Logger
	metrics *logger.Metrics
}

func (o *logObserver) LayoutDetected(date string, layout extract.Layout) {
	o.metrics.IncrCounter("layout." + layout.String())
	o.log.Debug("Layout detected", logger.Fields{"date": date, "layout": layout.String()})
}

func (o *logObserver) RowSkipped(date string, label string, reason extract.SkipReason) {
	o.metrics.IncrCounter("rows.skipped." + string(reason))
	o.log.Debug("Row skipped", logger.Fields{"date": date, "label": label, "reason": string(reason)})
}

func (o *logObserver) MealFound(date string, slot meal.Slot, rec *meal.Record) {
	o.metrics.IncrCounter("meals.found." + string(slot))
	o.log.Debug("Meal found", logger.Fields{"date": date, "slot": string(slot), "title": rec.Title})
}
