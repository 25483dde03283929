// Package metric defines the monitored metric families.
//
// Each family declares which router page it scrapes, the field specs
// locating its values, static graph metadata for describe mode, and a
// pure collection function turning a page snapshot into samples. The
// command layer owns fetching and output; collectors never touch the
// network, which keeps them trivially testable against page fixtures.
package metric
