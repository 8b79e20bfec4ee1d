// Package corpus stores extracted page text as sequentially numbered
// UTF-8 files under a single output directory, one file per accepted
// page.
package corpus
