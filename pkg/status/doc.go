/*
Package status owns file storage for a run and the record of what happened to
each file.

	            +-------------+
	            |   Status    |
	            +------+------+
	                   |
	      +------------+------------+
	      |                         |
	+-----+------+           +------+------+
	|  Manager   |           |   Tracker   |
	| (Storage)  |           | (Progress)  |
	+------------+           +-------------+

Manager is rooted at one directory. Writes go to a temp file in the target
directory and are renamed into place, so a reader never sees a half-written
file. Copies keep the source's permission bits.

Tracker receives one FileResult per task from any number of workers. The
progress counter advances exactly once per Record call. Summary can be built
at any point and is always available at the end of a run, failures included.

Outcomes form a closed taxonomy:

	unchanged        neither content nor relative path changed
	updated          content changed, same relative path
	renamed          relative path changed, same content
	renamed+updated  both changed
	failed           the file could not be processed
*/
package status
