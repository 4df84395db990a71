// Copyright (c) 2020-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package progresslog provides periodic logging for long-running generation.

Tests are included to ensure proper functionality.

## Feature Overview

- Maintains cumulative totals about generated output between each logging
  interval
  - Total number of blocks
  - Total number of values
- Logs all cumulative data every 10 seconds along with the next locale and an
  estimate of the overall progress
- Immediately logs any outstanding data when forced
*/
package progresslog
