package constant

// AsciiArtLogo is the application's banner shown in the root help.
const AsciiArtLogo = `        _     _                 _
 __   _(_) __| | __ _ _ __ __ _| |__
 \ \ / / |/ _' |/ _' | '__/ _' | '_ \
  \ V /| | (_| | (_| | | | (_| | |_) |
   \_/ |_|\__,_|\__, |_|  \__,_|_.__/
                |___/`
